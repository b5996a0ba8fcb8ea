// Package health provides health check endpoint handler.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/database"
)

const checkTimeout = 5 * time.Second

// Pinger is an optional dependency whose failure degrades but does not fail the service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler handles health check requests.
type Handler struct {
	db     *gorm.DB
	cache  Pinger
	logger *zap.SugaredLogger
}

// New creates a new health handler instance. cache may be nil.
func New(db *gorm.DB, cache Pinger, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		db:     db,
		cache:  cache,
		logger: logger,
	}
}

// Response represents health check response.
type Response struct {
	Status          string            `json:"status"`
	Checks          map[string]string `json:"checks"`
	OpenConnections int               `json:"open_connections,omitempty"`
}

// Check handles GET /health request.
func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	resp := Response{Status: "ok", Checks: map[string]string{"database": "ok"}}

	if err := database.HealthCheck(ctx, h.db); err != nil {
		h.logger.Warnw("health check failed", "component", "database", "error", err)
		resp.Status = "unhealthy"
		resp.Checks["database"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if stats, err := database.GetStats(h.db); err == nil {
		resp.OpenConnections = stats.OpenConnections
	}

	if h.cache != nil {
		resp.Checks["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.Warnw("health check degraded", "component", "cache", "error", err)
			resp.Status = "degraded"
			resp.Checks["cache"] = "unavailable"
		}
	}

	c.JSON(http.StatusOK, resp)
}
