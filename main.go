package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/audit"
	"github.com/Tukyboy007/hospital-back/internal/di"
	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/middleware"
	"github.com/Tukyboy007/hospital-back/pkg/config"
	"github.com/Tukyboy007/hospital-back/pkg/database"
	"github.com/Tukyboy007/hospital-back/pkg/logger"
	"github.com/Tukyboy007/hospital-back/pkg/redis"
	"github.com/Tukyboy007/hospital-back/pkg/telemetry"
)

const migrationsDir = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting hospital-back", zap.String("version", cfg.App.Version))

	ctx := context.Background()

	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	})
	if err != nil {
		appLog.Fatal("Telemetry init failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, &cfg.Database, cfg.OTel.Enabled)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(migrationsDir); err != nil {
		appLog.Fatal("Migrations failed", zap.Error(err))
	}
	appLog.Info("Database connected and migrated")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			appLog.Fatal("Redis connection failed", zap.Error(err))
		}
		defer redisClient.Close()
		appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	var publisher audit.Publisher = audit.NopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := audit.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, appLog)
		if err != nil {
			appLog.Fatal("Kafka connection failed", zap.Error(err))
		}
		defer kafkaPublisher.Close(context.Background())
		publisher = kafkaPublisher
		appLog.Info("Audit publisher connected", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	container := di.NewContainer(&di.ContainerConfig{
		DB:     db,
		Config: cfg,
		Audit:  publisher,
		Logger: appLog,
	})

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), tel.Middleware(), middleware.CORS(cfg.CORS.AllowedOrigins))

	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	auth := router.Group("/auth")
	{
		credentialRoutes := auth.Group("")
		if redisClient != nil {
			credentialRoutes.Use(middleware.RateLimit(redisClient, cfg.Redis.LoginLimit, cfg.Redis.LoginWindow))
		}
		credentialRoutes.POST("/register", container.AuthHandler.Register)
		credentialRoutes.POST("/login", container.AuthHandler.Login)

		auth.POST("/refresh", container.AuthHandler.Refresh)
		auth.POST("/logout", container.AuthHandler.Logout)
	}

	items := router.Group("/items")
	items.Use(middleware.Authenticate(container.AuthService), middleware.CSRF())
	{
		items.GET("", container.ItemHandler.List)
		items.GET("/:id", container.ItemHandler.Get)
		items.POST("", container.ItemHandler.Create)
		items.PUT("/:id", middleware.RequireRole(domain.RoleDoctor), container.ItemHandler.Update)
		items.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), container.ItemHandler.Delete)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		appLog.Info("Listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server shutdown failed", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Telemetry shutdown failed", zap.Error(err))
	}
	appLog.Info("Server stopped")
}
