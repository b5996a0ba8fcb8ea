// Package handler serves stored objects behind signed URLs.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/response"
	"github.com/festy23/realty_ops/internal/storage/model"
	"github.com/festy23/realty_ops/internal/storage/service"
)

// Handler handles HTTP requests for stored objects.
type Handler struct {
	store  service.Store
	logger *zap.SugaredLogger
}

// New creates a new storage handler instance.
func New(store service.Store, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

// GetObject handles GET /storage/objects/*path?token=.
func (h *Handler) GetObject(c *gin.Context) {
	path := c.Param("path")

	if err := h.store.Verify(path, c.Query("token")); err != nil {
		h.handleError(c, path, err)
		return
	}

	obj, err := h.store.Download(c.Request.Context(), path)
	if err != nil {
		h.handleError(c, path, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=3600")
	c.Header("Content-Length", strconv.FormatInt(obj.Size, 10))
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

func (h *Handler) handleError(c *gin.Context, path string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidSignature), errors.Is(err, model.ErrInvalidPath):
		response.Error(c, "INVALID_SIGNATURE", "invalid or missing object token", http.StatusForbidden)
	case errors.Is(err, model.ErrSignatureExpired):
		response.Error(c, "SIGNATURE_EXPIRED", "object link has expired", http.StatusForbidden)
	case errors.Is(err, model.ErrObjectNotFound):
		response.NotFound(c, "object not found")
	default:
		if !response.Internal(c, err) {
			h.logger.Errorw("error serving object", "path", path, "error", err)
		}
	}
}
