package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mocksmith/mocksmith/internal/observability/obscontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiddlewareEngine(cfg MiddlewareConfig) (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	r := gin.New()
	r.Use(GinMiddleware(cfg))
	r.GET("/ping", func(c *gin.Context) {
		seen = obscontext.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	r, seen := newMiddlewareEngine(MiddlewareConfig{
		RequestID: func() string { return "1234567890" },
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1234567890", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "1234567890", *seen)
}

func TestGinMiddlewareKeepsIncomingRequestID(t *testing.T) {
	r, seen := newMiddlewareEngine(MiddlewareConfig{
		RequestID: func() string { return "generated" },
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-Id", "caller-supplied")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied", rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "caller-supplied", *seen)
}

func TestGinMiddlewareFallsBackWithoutGenerator(t *testing.T) {
	r, seen := newMiddlewareEngine(MiddlewareConfig{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.NotEmpty(t, *seen)
}
