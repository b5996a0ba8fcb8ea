// Package apperror classifies failures from external collaborators (database, object store)
// into the error kinds the HTTP layer understands.
package apperror

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrTimeout is returned when a collaborator call exceeds its per-call deadline.
	ErrTimeout = errors.New("operation timed out")
	// ErrPersistenceFailed is returned when the store rejects or fails an operation.
	ErrPersistenceFailed = errors.New("persistence failed")
	// ErrPermissionDenied is the policy-rejection case of ErrPersistenceFailed.
	ErrPermissionDenied = errors.New("permission denied by store policy")
	// ErrValidationFailed is matched by every ValidationError.
	ErrValidationFailed = errors.New("validation failed")
)

// Error wraps a collaborator failure with its classification.
type Error struct {
	kinds []error
	cause error
}

func (e *Error) Error() string {
	return e.kinds[0].Error() + ": " + e.cause.Error()
}

// Unwrap exposes both the classification and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	return append(append([]error{}, e.kinds...), e.cause)
}

var policyMarkers = []string{
	"permission denied",
	"row-level security",
	"insufficient_privilege",
}

// FromDB classifies err from a store call. Errors that already carry a classification,
// and domain sentinels listed in passthrough, are returned unchanged.
func FromDB(err error, passthrough ...error) error {
	if err == nil {
		return nil
	}
	for _, target := range passthrough {
		if errors.Is(err, target) {
			return err
		}
	}

	var classified *Error
	if errors.As(err, &classified) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{kinds: []error{ErrTimeout}, cause: err}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range policyMarkers {
		if strings.Contains(msg, marker) {
			return &Error{kinds: []error{ErrPermissionDenied, ErrPersistenceFailed}, cause: err}
		}
	}

	return &Error{kinds: []error{ErrPersistenceFailed}, cause: err}
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// WithTimeout runs fn under a child context bounded by timeout.
// A non-positive timeout leaves the parent deadline in place.
func WithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}

// ValidationError lists the input fields that failed validation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// Is makes every ValidationError match ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// NewValidationError returns nil when fields is empty.
func NewValidationError(fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

// Fields returns the failing field list carried by err, if any.
func Fields(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
