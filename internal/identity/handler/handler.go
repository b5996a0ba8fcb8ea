// Package handler provides HTTP handlers for authentication endpoints.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/identity/model"
	"github.com/festy23/realty_ops/internal/identity/service"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/response"
)

// Handler handles HTTP requests for authentication endpoints.
type Handler struct {
	service service.Service
	logger  *zap.SugaredLogger
}

// New creates a new identity handler instance.
func New(svc service.Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register handles POST /auth/register.
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	profile, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			response.Error(c, "EMAIL_TAKEN", "email already registered", http.StatusConflict)
			return
		}
		if !response.Internal(c, err) {
			h.logger.Errorw("error registering profile", "error", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": profile})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		if !response.Internal(c, err) {
			h.logger.Errorw("error logging in", "error", err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me handles GET /auth/me.
func (h *Handler) Me(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	user, err := h.service.CurrentUser(c.Request.Context(), actorID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			response.Unauthorized(c, "account no longer exists")
			return
		}
		if !response.Internal(c, err) {
			h.logger.Errorw("error loading current user", "user_id", actorID, "error", err)
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
