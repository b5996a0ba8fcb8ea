// Package service provides business logic layer for the inquiry module.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/inquiry/model"
	"github.com/festy23/realty_ops/internal/inquiry/repository"
)

// Service defines the interface for inquiry business logic operations.
type Service interface {
	// List returns inquiries newest first. A non-empty status narrows the result.
	List(ctx context.Context, actorID, status string) ([]model.Inquiry, error)

	// UpdateStatus moves an inquiry to status. Any move between known statuses is allowed.
	UpdateStatus(ctx context.Context, actorID, id, status string) (*model.Inquiry, error)
}

type service struct {
	repo    repository.Repository
	guard   authz.Authorizer
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// New creates a new inquiry service instance.
func New(repo repository.Repository, guard authz.Authorizer, timeout time.Duration, logger *zap.SugaredLogger) Service {
	return &service{
		repo:    repo,
		guard:   guard,
		timeout: timeout,
		logger:  logger,
	}
}

// List returns inquiries newest first. A non-empty status narrows the result.
func (s *service) List(ctx context.Context, actorID, status string) ([]model.Inquiry, error) {
	var filter *model.Status
	if status != "" {
		parsed, err := model.ParseStatus(status)
		if err != nil {
			return nil, err
		}
		filter = &parsed
	}

	if _, err := authz.ResolveWithin(ctx, s.guard, s.timeout, actorID); err != nil {
		return nil, err
	}

	inquiries, err := apperror.WithTimeout(ctx, s.timeout, func(ctx context.Context) ([]model.Inquiry, error) {
		return s.repo.List(ctx, filter)
	})
	if err != nil {
		return nil, apperror.FromDB(err)
	}
	return inquiries, nil
}

// UpdateStatus moves an inquiry to status. Any move between known statuses is allowed.
func (s *service) UpdateStatus(ctx context.Context, actorID, id, status string) (*model.Inquiry, error) {
	next, err := model.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrInquiryNotFound
	}

	if _, err := authz.ResolveWithin(ctx, s.guard, s.timeout, actorID); err != nil {
		return nil, err
	}

	inquiry, err := apperror.WithTimeout(ctx, s.timeout, func(ctx context.Context) (*model.Inquiry, error) {
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			return nil, err
		}
		return s.repo.GetByID(ctx, id)
	})
	if err != nil {
		return nil, apperror.FromDB(err, model.ErrInquiryNotFound)
	}

	s.logger.Infow("inquiry status updated", "inquiry_id", id, "status", next, "user_id", actorID)
	return inquiry, nil
}
