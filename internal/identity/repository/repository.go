// Package repository provides data access layer for the identity module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/identity/model"
)

// Repository defines the interface for profile data access operations.
type Repository interface {
	// Create inserts a new profile.
	Create(ctx context.Context, profile *model.Profile) error

	// GetByID finds a profile by id.
	GetByID(ctx context.Context, id string) (*model.Profile, error)

	// GetByEmail finds a profile by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*model.Profile, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new identity repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Create inserts a new profile.
func (r *repository) Create(ctx context.Context, profile *model.Profile) error {
	err := r.db.WithContext(ctx).Create(profile).Error
	if err != nil {
		if apperror.IsDuplicate(err) {
			r.logger.Debugw("Create profile duplicate email", "email", profile.Email)
			return model.ErrEmailTaken
		}
		r.logger.Errorw("Create profile database error", "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// GetByID finds a profile by id.
func (r *repository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByID database error", "user_id", id, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &profile, nil
}

// GetByEmail finds a profile by email, case-insensitively.
func (r *repository) GetByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrUserNotFound
		}
		r.logger.Errorw("GetByEmail database error", "error", err)
		return nil, apperror.FromDB(err)
	}
	return &profile, nil
}
