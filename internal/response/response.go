// Package response writes the JSON error envelope shared by all handlers.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/festy23/realty_ops/internal/apperror"
)

// ErrorBody is the payload under the "error" key.
type ErrorBody struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error writes an error envelope and aborts the chain.
func Error(c *gin.Context, code, message string, statusCode int) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, "NOT_FOUND", message, http.StatusNotFound)
}

// InvalidRequest writes a 400 envelope for malformed input.
func InvalidRequest(c *gin.Context, message string) {
	Error(c, "INVALID_REQUEST", message, http.StatusBadRequest)
}

// Validation writes a 400 envelope carrying the failing fields.
func Validation(c *gin.Context, fields []string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrorBody{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
		Fields:  fields,
	}})
}

// Unauthorized writes a 401 envelope.
func Unauthorized(c *gin.Context, message string) {
	Error(c, "UNAUTHORIZED", message, http.StatusUnauthorized)
}

// Internal maps collaborator failures (timeouts, store rejections) and anything unclassified.
// It reports whether the error was a known collaborator kind.
func Internal(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, apperror.ErrValidationFailed):
		Validation(c, apperror.Fields(err))
		return true
	case errors.Is(err, apperror.ErrTimeout):
		Error(c, "TIMEOUT", "upstream operation timed out", http.StatusGatewayTimeout)
		return true
	case errors.Is(err, apperror.ErrPermissionDenied):
		Error(c, "PERMISSION_DENIED", "operation rejected by data policy", http.StatusForbidden)
		return true
	case errors.Is(err, apperror.ErrPersistenceFailed):
		Error(c, "PERSISTENCE_FAILED", "failed to persist changes", http.StatusInternalServerError)
		return true
	default:
		Error(c, "INTERNAL_ERROR", "internal server error", http.StatusInternalServerError)
		return false
	}
}
