// Package handler provides HTTP handlers for team endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/response"
	"github.com/festy23/realty_ops/internal/team/model"
	"github.com/festy23/realty_ops/internal/team/service"
)

// Handler handles HTTP requests for team endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new team handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// CreateTeam handles POST /teams.
func (h *Handler) CreateTeam(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.CreateTeam(c.Request.Context(), actorID, &req)
	if err != nil {
		h.handleError(c, "error creating team", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"team": resp})
}

// ListTeams handles GET /teams.
func (h *Handler) ListTeams(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	teams, err := h.service.ListTeams(c.Request.Context(), actorID)
	if err != nil {
		h.handleError(c, "error listing teams", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

// GetTeam handles GET /teams/:id.
func (h *Handler) GetTeam(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	resp, err := h.service.GetTeam(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.handleError(c, "error getting team", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateTeam handles PATCH /teams/:id.
func (h *Handler) UpdateTeam(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	team, err := h.service.UpdateTeam(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "error updating team", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"team": team})
}

// DeleteTeam handles DELETE /teams/:id.
func (h *Handler) DeleteTeam(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.DeleteTeam(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.handleError(c, "error deleting team", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// InviteMember handles POST /teams/:id/members.
func (h *Handler) InviteMember(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	member, err := h.service.InviteMember(c.Request.Context(), actorID, c.Param("id"), &req)
	if err != nil {
		h.handleError(c, "error inviting member", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// UpdateMemberRole handles PATCH /teams/:id/members/:user_id.
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	err := h.service.UpdateMemberRole(c.Request.Context(), actorID, c.Param("id"), c.Param("user_id"), req.Role)
	if err != nil {
		h.handleError(c, "error updating member role", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMember handles DELETE /teams/:id/members/:user_id.
func (h *Handler) RemoveMember(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), actorID, c.Param("id"), c.Param("user_id")); err != nil {
		h.handleError(c, "error removing member", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, model.ErrTeamNotFound):
		response.NotFound(c, "team not found")
	case errors.Is(err, model.ErrMemberNotFound):
		response.NotFound(c, "team member not found")
	case errors.Is(err, model.ErrUserNotFound):
		response.Error(c, "USER_NOT_FOUND", "no account exists for this email; the user must sign up first", http.StatusNotFound)
	case errors.Is(err, model.ErrNotTeamAdmin):
		response.Error(c, "FORBIDDEN", "only team admins can perform this action", http.StatusForbidden)
	case errors.Is(err, model.ErrAlreadyInTeam):
		response.Error(c, "ALREADY_IN_TEAM", "user already belongs to a team", http.StatusConflict)
	case errors.Is(err, model.ErrAlreadyMember):
		response.Error(c, "ALREADY_MEMBER", "user is already a member of this team", http.StatusConflict)
	case errors.Is(err, model.ErrTeamHasProperties):
		response.Error(c, "TEAM_HAS_PROPERTIES", "team still owns properties", http.StatusConflict)
	case errors.Is(err, model.ErrInvalidRole):
		response.Error(c, "INVALID_ROLE", "role must be admin or member", http.StatusBadRequest)
	default:
		if !response.Internal(c, err) {
			h.logger.Errorw(msg, "error", err)
		}
	}
}
