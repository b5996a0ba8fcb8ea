// Package repository provides data access layer for the inquiry module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/inquiry/model"
)

// Repository defines the interface for inquiry data access operations.
type Repository interface {
	// Create inserts an inquiry.
	Create(ctx context.Context, inquiry *model.Inquiry) error

	// GetByID finds an inquiry by id.
	GetByID(ctx context.Context, id string) (*model.Inquiry, error)

	// List returns inquiries newest first, optionally narrowed to one status.
	List(ctx context.Context, status *model.Status) ([]model.Inquiry, error)

	// UpdateStatus writes only the status.
	UpdateStatus(ctx context.Context, id string, status model.Status) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new inquiry repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an inquiry.
func (r *repository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	if err := r.db.WithContext(ctx).Create(inquiry).Error; err != nil {
		r.logger.Errorw("Create inquiry database error", "inquiry_id", inquiry.ID, "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// GetByID finds an inquiry by id.
func (r *repository) GetByID(ctx context.Context, id string) (*model.Inquiry, error) {
	var inquiry model.Inquiry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&inquiry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrInquiryNotFound
		}
		r.logger.Errorw("GetByID inquiry database error", "inquiry_id", id, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &inquiry, nil
}

// List returns inquiries newest first, optionally narrowed to one status.
func (r *repository) List(ctx context.Context, status *model.Status) ([]model.Inquiry, error) {
	query := r.db.WithContext(ctx).Model(&model.Inquiry{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	inquiries := make([]model.Inquiry, 0)
	if err := query.Order("created_at DESC, id ASC").Find(&inquiries).Error; err != nil {
		r.logger.Errorw("List inquiries database error", "error", err)
		return nil, apperror.FromDB(err)
	}

	r.logger.Debugw("List inquiries completed", "count", len(inquiries))
	return inquiries, nil
}

// UpdateStatus writes only the status.
func (r *repository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	result := r.db.WithContext(ctx).Model(&model.Inquiry{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		r.logger.Errorw("UpdateStatus inquiry database error", "inquiry_id", id, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrInquiryNotFound
	}
	return nil
}
