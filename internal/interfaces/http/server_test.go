package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/curtains-backend/internal/config"
	"github.com/your-org/curtains-backend/internal/domain/cart"
	redisstore "github.com/your-org/curtains-backend/internal/infrastructure/database/redis"
)

func newTestServer(t *testing.T, deps Dependencies) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.FromEnv()
	cfg.App.Environment = "test"
	cfg.JWT.Secret = ""
	cfg.Security.RateLimitPerMinute = 100

	if deps.Logger == nil {
		deps.Logger = logrus.New()
		deps.Logger.SetOutput(io.Discard)
	}
	return NewServer(cfg, deps)
}

func TestServer_CartOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	srv := newTestServer(t, Dependencies{
		Storage: redisstore.NewCartStorage(rdb),
		Redis:   rdb,
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items",
		strings.NewReader(`{"productId":"cafe-curtain","width":60,"height":45,"material":"cotton","color":"white","quantity":2,"price":48}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))

	keys := mr.Keys()
	var cartKeys []string
	for _, k := range keys {
		if strings.HasPrefix(k, "cart:session:") {
			cartKeys = append(cartKeys, k)
		}
	}
	assert.Len(t, cartKeys, 1)
}

func TestServer_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := newTestServer(t, Dependencies{
			Storage: cart.NewMemoryStorage(),
			Checks: map[string]HealthCheck{
				"redis": func(context.Context) error { return nil },
			},
		})

		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"healthy"`)
	})

	t.Run("unhealthy", func(t *testing.T) {
		srv := newTestServer(t, Dependencies{
			Storage: cart.NewMemoryStorage(),
			Checks: map[string]HealthCheck{
				"database": func(context.Context) error { return errors.New("down") },
			},
		})

		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "database ping failed")
	})
}

func TestServer_Ready(t *testing.T) {
	srv := newTestServer(t, Dependencies{Storage: cart.NewMemoryStorage()})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ready"`)
}
