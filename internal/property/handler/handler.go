// Package handler provides HTTP handlers for property endpoints.
package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/property/model"
	"github.com/festy23/realty_ops/internal/property/service"
	"github.com/festy23/realty_ops/internal/response"
	storageModel "github.com/festy23/realty_ops/internal/storage/model"
)

const imageField = "image"

var errImageTooLarge = errors.New("image exceeds maximum size")

// Handler handles HTTP requests for property endpoints.
type Handler struct {
	service        service.Service
	maxUploadBytes int64
	logger         *zap.SugaredLogger
}

// New creates a new property handler instance.
func New(svc service.Service, maxUploadBytes int64, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		service:        svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// Create handles POST /properties. Accepts JSON, or multipart form fields with an optional image file.
func (h *Handler) Create(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	input, image, ok := h.bindInput(c)
	if !ok {
		return
	}

	property, err := h.service.Create(c.Request.Context(), actorID, input, image)
	if err != nil {
		h.handleError(c, "error creating property", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"property": property})
}

// List handles GET /properties.
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

	properties, err := h.service.List(c.Request.Context(), actorID, &filter)
	if err != nil {
		h.handleError(c, "error listing properties", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// Get handles GET /properties/:id.
func (h *Handler) Get(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	property, err := h.service.Get(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.handleError(c, "error getting property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Update handles PUT /properties/:id.
func (h *Handler) Update(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	input, image, ok := h.bindInput(c)
	if !ok {
		return
	}

	property, err := h.service.Update(c.Request.Context(), actorID, c.Param("id"), input, image)
	if err != nil {
		h.handleError(c, "error updating property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// UpdateStatus handles PATCH /properties/:id/status.
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

	property, err := h.service.UpdateStatus(c.Request.Context(), actorID, c.Param("id"), req.Status)
	if err != nil {
		h.handleError(c, "error updating property status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Reopen handles POST /properties/:id/reopen.
func (h *Handler) Reopen(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	property, err := h.service.Reopen(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.handleError(c, "error reopening property", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// UploadImage handles POST /properties/:id/image. The image is a multipart
// "image" file or the raw request body.
func (h *Handler) UploadImage(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var (
		image *model.Image
		err   error
	)
	if isMultipart(c) {
		image, err = h.readFormImage(c)
	} else {
		image, err = h.readImage(c.Request.Body)
	}
	if err != nil {
		h.handleImageReadError(c, err)
		return
	}
	if image == nil {
		response.InvalidRequest(c, "image is required")
		return
	}

	property, err := h.service.UploadImage(c.Request.Context(), actorID, c.Param("id"), image)
	if err != nil {
		h.handleError(c, "error uploading property image", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"property": property})
}

// Delete handles DELETE /properties/:id.
func (h *Handler) Delete(c *gin.Context) {
	actorID, ok := middleware.ActorID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	if err := h.service.Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		h.handleError(c, "error deleting property", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindInput reads the property fields and, for multipart requests, the optional image.
func (h *Handler) bindInput(c *gin.Context) (*model.PropertyInput, *model.Image, bool) {
	var input model.PropertyInput
	if err := c.ShouldBind(&input); err != nil {
		response.InvalidRequest(c, "invalid request body")
		return nil, nil, false
	}

	if !isMultipart(c) {
		return &input, nil, true
	}

	image, err := h.readFormImage(c)
	if err != nil {
		h.handleImageReadError(c, err)
		return nil, nil, false
	}
	return &input, image, true
}

// readFormImage returns nil when the form has no image file.
func (h *Handler) readFormImage(c *gin.Context) (*model.Image, error) {
	header, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		return nil, errImageTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return h.readImage(file)
}

// readImage returns nil for an empty body.
func (h *Handler) readImage(r io.Reader) (*model.Image, error) {
	if r == nil {
		return nil, nil
	}
	if h.maxUploadBytes > 0 {
		r = io.LimitReader(r, h.maxUploadBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if h.maxUploadBytes > 0 && int64(len(data)) > h.maxUploadBytes {
		return nil, errImageTooLarge
	}
	if len(data) == 0 {
		return nil, nil
	}
	return &model.Image{Data: data}, nil
}

func (h *Handler) handleImageReadError(c *gin.Context, err error) {
	if errors.Is(err, errImageTooLarge) {
		response.Error(c, "IMAGE_TOO_LARGE", fmt.Sprintf("image must not exceed %d bytes", h.maxUploadBytes),
			http.StatusRequestEntityTooLarge)
		return
	}
	response.InvalidRequest(c, "invalid image upload")
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// handleError maps service errors to HTTP responses. Cross-team failures never describe the other team.
func (h *Handler) handleError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, authz.ErrNoTeamMembership):
		response.Error(c, "NO_TEAM_MEMBERSHIP", "you must join or create a team first", http.StatusForbidden)
	case errors.Is(err, authz.ErrAmbiguousMembership):
		response.Error(c, "AMBIGUOUS_MEMBERSHIP", "your account belongs to more than one team", http.StatusConflict)
	case errors.Is(err, authz.ErrCrossTeamAccess):
		response.Error(c, "CROSS_TEAM_ACCESS", "you don't have permission to modify properties for this team",
			http.StatusForbidden)
	case errors.Is(err, authz.ErrPropertyNotFound), errors.Is(err, model.ErrPropertyNotFound):
		response.NotFound(c, "property not found")
	case errors.Is(err, model.ErrInvalidStatus):
		response.Error(c, "INVALID_STATUS", "status must be one of Acquisition, Preparation, Marketing, Sold, Lost",
			http.StatusBadRequest)
	case errors.Is(err, model.ErrInvalidTransition):
		response.Error(c, "INVALID_TRANSITION", model.ErrInvalidTransition.Error(), http.StatusConflict)
	case errors.Is(err, model.ErrInvalidImage):
		response.Error(c, "INVALID_IMAGE", "uploaded file is not an image", http.StatusUnsupportedMediaType)
	case errors.Is(err, storageModel.ErrObjectTooLarge):
		response.Error(c, "IMAGE_TOO_LARGE", "image exceeds maximum size", http.StatusRequestEntityTooLarge)
	case errors.Is(err, model.ErrStorageUploadFailed):
		h.logger.Errorw(msg, "error", err)
		response.Error(c, "STORAGE_UPLOAD_FAILED", "failed to store image", http.StatusBadGateway)
	default:
		if !response.Internal(c, err) {
			h.logger.Errorw(msg, "error", err)
		}
	}
}
