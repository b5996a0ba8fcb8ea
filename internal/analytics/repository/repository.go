// Package repository provides data access layer for the analytics module.
package repository

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/analytics/model"
	"github.com/festy23/realty_ops/internal/apperror"
)

// Repository defines the interface for analytics data access operations.
type Repository interface {
	// StatusCounts returns the number of team properties per status. Empty stages are omitted.
	StatusCounts(ctx context.Context, teamID string) ([]model.StatusCount, error)

	// PriceSummary returns count, sum and average price of the team's properties.
	PriceSummary(ctx context.Context, teamID string) (*model.PriceSummary, error)

	// Metrics returns stored metric rows of the team within [from, to], ordered by period.
	Metrics(ctx context.Context, teamID string, from, to *time.Time) ([]model.Metric, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new analytics repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// StatusCounts returns the number of team properties per status.
func (r *repository) StatusCounts(ctx context.Context, teamID string) ([]model.StatusCount, error) {
	r.logger.Debugw("StatusCounts called", "team_id", teamID)

	var counts []model.StatusCount
	err := r.db.WithContext(ctx).
		Table("properties").
		Select("status, COUNT(*) as count").
		Where("team_id = ?", teamID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		r.logger.Errorw("StatusCounts database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	return counts, nil
}

// PriceSummary returns count, sum and average price of the team's properties.
func (r *repository) PriceSummary(ctx context.Context, teamID string) (*model.PriceSummary, error) {
	r.logger.Debugw("PriceSummary called", "team_id", teamID)

	var result struct {
		Total        int64   `gorm:"column:total"`
		TotalValue   float64 `gorm:"column:total_value"`
		AveragePrice float64 `gorm:"column:average_price"`
	}

	err := r.db.WithContext(ctx).
		Table("properties").
		Select(`
			COUNT(*) as total,
			COALESCE(SUM(price), 0) as total_value,
			COALESCE(AVG(price), 0) as average_price
		`).
		Where("team_id = ?", teamID).
		Scan(&result).Error
	if err != nil {
		r.logger.Errorw("PriceSummary database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	return &model.PriceSummary{
		Total:        int(result.Total),
		TotalValue:   result.TotalValue,
		AveragePrice: result.AveragePrice,
	}, nil
}

// Metrics returns stored metric rows of the team within [from, to], ordered by period.
func (r *repository) Metrics(ctx context.Context, teamID string, from, to *time.Time) ([]model.Metric, error) {
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)
	if from != nil {
		query = query.Where("period >= ?", *from)
	}
	if to != nil {
		query = query.Where("period <= ?", *to)
	}

	metrics := make([]model.Metric, 0)
	if err := query.Order("period ASC").Find(&metrics).Error; err != nil {
		r.logger.Errorw("Metrics database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	r.logger.Debugw("Metrics completed", "team_id", teamID, "count", len(metrics))
	return metrics, nil
}
