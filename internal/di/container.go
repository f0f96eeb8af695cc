package di

import (
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/audit"
	"github.com/Tukyboy007/hospital-back/internal/handler"
	"github.com/Tukyboy007/hospital-back/internal/password"
	"github.com/Tukyboy007/hospital-back/internal/repository"
	"github.com/Tukyboy007/hospital-back/internal/service"
	"github.com/Tukyboy007/hospital-back/internal/session"
	"github.com/Tukyboy007/hospital-back/internal/token"
	"github.com/Tukyboy007/hospital-back/pkg/config"
	"github.com/Tukyboy007/hospital-back/pkg/database"
)

// Container holds all dependencies for the service
type Container struct {
	// Infrastructure
	DB        *database.PostgresDB
	Transport *session.Transport

	// Repositories
	DoctorRepo  repository.DoctorRepository
	RefreshRepo repository.RefreshTokenRepository
	ItemRepo    repository.ItemRepository

	// Services
	AuthService service.AuthService
	ItemService service.ItemService

	// Handlers
	HealthHandler *handler.HealthHandler
	AuthHandler   *handler.AuthHandler
	ItemHandler   *handler.ItemHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	DB     *database.PostgresDB
	Config *config.Config
	Audit  audit.Publisher
	Logger *zap.Logger
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{DB: cfg.DB}

	pool := cfg.DB.Pool()
	c.DoctorRepo = repository.NewPostgresDoctorRepository(pool)
	c.RefreshRepo = repository.NewPostgresRefreshTokenRepository(pool)
	c.ItemRepo = repository.NewPostgresItemRepository(pool)

	c.Transport = session.NewTransport(
		cfg.Config.Cookie.Domain,
		cfg.Config.Cookie.Secure,
		cfg.Config.JWT.AccessTokenTTL,
		cfg.Config.JWT.RefreshTokenTTL,
	)

	c.AuthService = service.NewAuthService(
		c.DoctorRepo,
		c.RefreshRepo,
		password.NewVault(password.DefaultParams()),
		token.NewCodec(cfg.Config.JWT.Secret),
		cfg.Audit,
		cfg.Logger,
		&service.AuthServiceConfig{
			AccessTokenTTL:  cfg.Config.JWT.AccessTokenTTL,
			RefreshTokenTTL: cfg.Config.JWT.RefreshTokenTTL,
		},
	)
	c.ItemService = service.NewItemService(c.ItemRepo)

	c.HealthHandler = handler.NewHealthHandler(c.DB)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, c.Transport, cfg.Logger)
	c.ItemHandler = handler.NewItemHandler(c.ItemService, cfg.Logger)

	return c
}
