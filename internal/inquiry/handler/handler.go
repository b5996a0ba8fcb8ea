// Package handler provides HTTP handlers for inquiry endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/inquiry/model"
	"github.com/festy23/realty_ops/internal/inquiry/service"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/response"
)

// Handler handles HTTP requests for inquiry endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new inquiry handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// List handles GET /inquiries.
func (h *Handler) List(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var filter model.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.InvalidRequest(c, "invalid query parameters")
		return
	}

	inquiries, err := h.service.List(c.Request.Context(), actorID, filter.Status)
	if err != nil {
		h.handleError(c, "error listing inquiries", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries})
}

// UpdateStatus handles PATCH /inquiries/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	inquiry, err := h.service.UpdateStatus(c.Request.Context(), actorID, c.Param("id"), req.Status)
	if err != nil {
		h.handleError(c, "error updating inquiry status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, authz.ErrNoTeamMembership):
		response.Error(c, "NO_TEAM_MEMBERSHIP", "you must join or create a team first", http.StatusForbidden)
	case errors.Is(err, authz.ErrAmbiguousMembership):
		response.Error(c, "AMBIGUOUS_MEMBERSHIP", "your account belongs to more than one team", http.StatusConflict)
	case errors.Is(err, model.ErrInquiryNotFound):
		response.NotFound(c, "inquiry not found")
	case errors.Is(err, model.ErrInvalidInquiryStatus):
		response.Error(c, "INVALID_STATUS", "status must be one of New, Contacted, Scheduled, Closed, Lost",
			http.StatusBadRequest)
	default:
		if !response.Internal(c, err) {
			h.logger.Errorw(msg, "error", err)
		}
	}
}
