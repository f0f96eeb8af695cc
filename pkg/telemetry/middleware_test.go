package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func serveWith(t *testing.T, tel *Telemetry) (*httptest.ResponseRecorder, trace.SpanContext) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var spanCtx trace.SpanContext
	router := gin.New()
	router.Use(tel.Middleware())
	router.GET("/items/:id", func(c *gin.Context) {
		spanCtx = trace.SpanContextFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	return w, spanCtx
}

func TestMiddleware_RecordsSpan(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	tel := &Telemetry{provider: provider, tracer: provider.Tracer("test")}

	w, spanCtx := serveWith(t, tel)

	assert.Equal(t, http.StatusOK, w.Code)
	// The handler runs inside the request span and the trace ID is exposed
	require.True(t, spanCtx.HasTraceID())
	assert.Equal(t, spanCtx.TraceID().String(), w.Header().Get(TraceIDHeader))
}

func TestMiddleware_DisabledPassesThrough(t *testing.T) {
	tel, err := Init(context.Background(), &Config{Enabled: false, ServiceName: "test"})
	require.NoError(t, err)

	w, spanCtx := serveWith(t, tel)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, spanCtx.HasTraceID())
	assert.Empty(t, w.Header().Get(TraceIDHeader))
}
