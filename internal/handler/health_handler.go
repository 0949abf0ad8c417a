package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is anything whose reachability gates readiness.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CachePinger reports whether the optional resolution cache is reachable.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db    Pinger
	cache CachePinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// WithCache makes readiness report the cache state. The cache only saves
// storage probes, so an unreachable cache does not fail readiness.
func (h *HealthHandler) WithCache(cache CachePinger) *HealthHandler {
	h.cache = cache
	return h
}

// Liveness handles GET /healthz
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Readiness handles GET /readyz
// @Summary Readiness probe
// @Description Reports unavailable while the database cannot be reached; the cache state is informational
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Error: "database not reachable"})
		return
	}

	resp := HealthResponse{Status: "ok"}
	if h.cache != nil {
		resp.Cache = "ok"
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			log.Printf("healthHandler.Readiness: cache ping failed: %v", err)
			resp.Cache = "unavailable"
		}
	}
	c.JSON(http.StatusOK, resp)
}
