// Package repository provides data access layer for the storage module.
package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/storage/model"
)

// Repository defines the interface for stored object access.
type Repository interface {
	// Put inserts obj, or replaces an existing object at the same key when overwrite is set.
	Put(ctx context.Context, obj *model.Object, overwrite bool) error

	// Get returns the object at (bucket, path).
	Get(ctx context.Context, bucket, path string) (*model.Object, error)

	// Exists reports whether an object is stored at (bucket, path).
	Exists(ctx context.Context, bucket, path string) (bool, error)

	// ListPaths returns the paths in bucket starting with prefix, in lexical order.
	ListPaths(ctx context.Context, bucket, prefix string) ([]string, error)

	// Delete removes the object at (bucket, path).
	Delete(ctx context.Context, bucket, path string) error
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new storage repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// Put inserts obj, or replaces an existing object at the same key when overwrite is set.
func (r *repository) Put(ctx context.Context, obj *model.Object, overwrite bool) error {
	query := r.db.WithContext(ctx)
	if overwrite {
		query = query.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bucket"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"content_type", "size", "data", "updated_at"}),
		})
	}

	if err := query.Create(obj).Error; err != nil {
		if apperror.IsDuplicate(err) {
			return model.ErrObjectExists
		}
		r.logger.Errorw("Put object database error", "bucket", obj.Bucket, "path", obj.Path, "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// Get returns the object at (bucket, path).
func (r *repository) Get(ctx context.Context, bucket, path string) (*model.Object, error) {
	var obj model.Object
	err := r.db.WithContext(ctx).
		Where("bucket = ? AND path = ?", bucket, path).
		First(&obj).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrObjectNotFound
		}
		r.logger.Errorw("Get object database error", "bucket", bucket, "path", path, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &obj, nil
}

// Exists reports whether an object is stored at (bucket, path).
func (r *repository) Exists(ctx context.Context, bucket, path string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Object{}).
		Where("bucket = ? AND path = ?", bucket, path).
		Count(&count).Error
	if err != nil {
		r.logger.Errorw("Exists object database error", "bucket", bucket, "path", path, "error", err)
		return false, apperror.FromDB(err)
	}
	return count > 0, nil
}

// ListPaths returns the paths in bucket starting with prefix, in lexical order.
func (r *repository) ListPaths(ctx context.Context, bucket, prefix string) ([]string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&model.Object{}).
		Where("bucket = ? AND path LIKE ?", bucket, prefix+"%").
		Order("path").
		Pluck("path", &paths).Error
	if err != nil {
		r.logger.Errorw("ListPaths database error", "bucket", bucket, "prefix", prefix, "error", err)
		return nil, apperror.FromDB(err)
	}
	return paths, nil
}

// Delete removes the object at (bucket, path).
func (r *repository) Delete(ctx context.Context, bucket, path string) error {
	result := r.db.WithContext(ctx).
		Where("bucket = ? AND path = ?", bucket, path).
		Delete(&model.Object{})
	if result.Error != nil {
		r.logger.Errorw("Delete object database error", "bucket", bucket, "path", path, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrObjectNotFound
	}
	return nil
}
