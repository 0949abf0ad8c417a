package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"brokerdesk/internal/handler"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
	}{
		{"ready", nil, http.StatusOK},
		{"database down", errors.New("refused"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(pingerFunc(func(context.Context) error { return tt.ping }))

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			h.Readiness(c)
			assert.Equal(t, tt.status, w.Code)

			w = httptest.NewRecorder()
			c, _ = gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			h.Liveness(c)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

type cachePingerFunc func(ctx context.Context) error

func (f cachePingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Readiness_Cache(t *testing.T) {
	tests := []struct {
		name  string
		ping  error
		cache string
	}{
		{"reachable", nil, "ok"},
		{"unreachable", errors.New("dial tcp: refused"), "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(pingerFunc(func(context.Context) error { return nil })).
				WithCache(cachePingerFunc(func(context.Context) error { return tt.ping }))

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
			h.Readiness(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"cache":"`+tt.cache+`"`)
		})
	}
}
