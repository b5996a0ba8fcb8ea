// Package handler provides HTTP handlers for analytics endpoints.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/analytics/model"
	"github.com/festy23/realty_ops/internal/analytics/service"
	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/response"
)

const dateLayout = "2006-01-02"

// Handler handles HTTP requests for analytics endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new analytics handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// GetPropertyBreakdown handles GET /analytics/properties.
func (h *Handler) GetPropertyBreakdown(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	resp, err := h.service.PropertyBreakdown(c.Request.Context(), actorID)
	if err != nil {
		h.handleError(c, "error getting property breakdown", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetMetrics handles GET /analytics/metrics.
func (h *Handler) GetMetrics(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var query model.MetricsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.InvalidRequest(c, "invalid query parameters")
		return
	}
	from, err := parseDate(query.From)
	if err != nil {
		response.InvalidRequest(c, "from must be a date in YYYY-MM-DD format")
		return
	}
	to, err := parseDate(query.To)
	if err != nil {
		response.InvalidRequest(c, "to must be a date in YYYY-MM-DD format")
		return
	}

	resp, err := h.service.Metrics(c.Request.Context(), actorID, from, to)
	if err != nil {
		h.handleError(c, "error getting metrics", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, authz.ErrNoTeamMembership):
		response.Error(c, "NO_TEAM_MEMBERSHIP", "you must join or create a team first", http.StatusForbidden)
	case errors.Is(err, authz.ErrAmbiguousMembership):
		response.Error(c, "AMBIGUOUS_MEMBERSHIP", "your account belongs to more than one team", http.StatusConflict)
	case errors.Is(err, model.ErrInvalidRange):
		response.InvalidRequest(c, model.ErrInvalidRange.Error())
	default:
		if !response.Internal(c, err) {
			h.logger.Errorw(msg, "error", err)
		}
	}
}
