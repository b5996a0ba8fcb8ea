// Package service provides business logic layer for the analytics module.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/analytics/model"
	"github.com/festy23/realty_ops/internal/analytics/repository"
	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/authz"
	propertyModel "github.com/festy23/realty_ops/internal/property/model"
)

// Service defines the interface for analytics business logic operations.
type Service interface {
	// PropertyBreakdown returns status counts and price aggregates for the actor's team.
	PropertyBreakdown(ctx context.Context, actorID string) (*model.PropertyBreakdown, error)

	// Metrics returns the stored metric rows of the actor's team. Nil bounds are open.
	Metrics(ctx context.Context, actorID string, from, to *time.Time) (*model.MetricsResponse, error)
}

type service struct {
	repo    repository.Repository
	guard   authz.Authorizer
	timeout time.Duration
	logger  *zap.SugaredLogger
}

// New creates a new analytics service instance.
func New(repo repository.Repository, guard authz.Authorizer, timeout time.Duration, logger *zap.SugaredLogger) Service {
	return &service{
		repo:    repo,
		guard:   guard,
		timeout: timeout,
		logger:  logger,
	}
}

// PropertyBreakdown returns status counts and price aggregates for the actor's team.
func (s *service) PropertyBreakdown(ctx context.Context, actorID string) (*model.PropertyBreakdown, error) {
	membership, err := authz.ResolveWithin(ctx, s.guard, s.timeout, actorID)
	if err != nil {
		return nil, err
	}

	breakdown, err := apperror.WithTimeout(ctx, s.timeout, func(ctx context.Context) (*model.PropertyBreakdown, error) {
		counts, err := s.repo.StatusCounts(ctx, membership.TeamID)
		if err != nil {
			return nil, err
		}
		summary, err := s.repo.PriceSummary(ctx, membership.TeamID)
		if err != nil {
			return nil, err
		}
		return &model.PropertyBreakdown{ByStatus: fillStatuses(counts), PriceSummary: *summary}, nil
	})
	if err != nil {
		s.logger.Errorw("PropertyBreakdown failed", "team_id", membership.TeamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	s.logger.Debugw("PropertyBreakdown completed", "team_id", membership.TeamID, "total", breakdown.Total)
	return breakdown, nil
}

// fillStatuses orders counts by pipeline stage and adds zero rows for empty stages.
func fillStatuses(counts []model.StatusCount) []model.StatusCount {
	byStatus := make(map[propertyModel.Status]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	filled := make([]model.StatusCount, 0, len(propertyModel.Statuses))
	for _, status := range propertyModel.Statuses {
		filled = append(filled, model.StatusCount{Status: status, Count: byStatus[status]})
	}
	return filled
}

// Metrics returns the stored metric rows of the actor's team. Nil bounds are open.
func (s *service) Metrics(ctx context.Context, actorID string, from, to *time.Time) (*model.MetricsResponse, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, model.ErrInvalidRange
	}

	membership, err := authz.ResolveWithin(ctx, s.guard, s.timeout, actorID)
	if err != nil {
		return nil, err
	}

	metrics, err := apperror.WithTimeout(ctx, s.timeout, func(ctx context.Context) ([]model.Metric, error) {
		return s.repo.Metrics(ctx, membership.TeamID, from, to)
	})
	if err != nil {
		s.logger.Errorw("Metrics failed", "team_id", membership.TeamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	return &model.MetricsResponse{Metrics: metrics}, nil
}
