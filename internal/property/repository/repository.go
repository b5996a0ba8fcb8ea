// Package repository provides data access layer for the property module.
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/property/model"
)

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Repository defines the interface for property data access operations.
type Repository interface {
	// Create inserts a new property.
	Create(ctx context.Context, property *model.Property) error

	// GetByID finds a property by id.
	GetByID(ctx context.Context, id string) (*model.Property, error)

	// PropertyTeamID returns the owning team of a property, or "" when it does not exist.
	PropertyTeamID(ctx context.Context, id string) (string, error)

	// Update writes the mutable fields of property.
	Update(ctx context.Context, property *model.Property) error

	// UpdateStatus writes only the status.
	UpdateStatus(ctx context.Context, id string, status model.Status) error

	// UpdateImageURL writes only the image url.
	UpdateImageURL(ctx context.Context, id, imageURL string) error

	// Delete removes a property.
	Delete(ctx context.Context, id string) error

	// ListByTeam returns the team's properties matching filter, newest first.
	ListByTeam(ctx context.Context, teamID string, filter *model.ListFilter) ([]model.Property, error)
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new property repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new property.
func (r *repository) Create(ctx context.Context, property *model.Property) error {
	r.logger.Debugw("Create property", "property_id", property.ID, "team_id", property.TeamID)

	if err := r.db.WithContext(ctx).Create(property).Error; err != nil {
		r.logger.Errorw("Create property database error", "property_id", property.ID, "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// GetByID finds a property by id.
func (r *repository) GetByID(ctx context.Context, id string) (*model.Property, error) {
	var property model.Property
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrPropertyNotFound
		}
		r.logger.Errorw("GetByID database error", "property_id", id, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &property, nil
}

// PropertyTeamID returns the owning team of a property, or "" when it does not exist.
func (r *repository) PropertyTeamID(ctx context.Context, id string) (string, error) {
	var teamIDs []string
	err := r.db.WithContext(ctx).
		Model(&model.Property{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("team_id", &teamIDs).Error
	if err != nil {
		r.logger.Errorw("PropertyTeamID database error", "property_id", id, "error", err)
		return "", apperror.FromDB(err)
	}
	if len(teamIDs) == 0 {
		return "", nil
	}
	return teamIDs[0], nil
}

// Update writes the mutable fields of property. team_id, created_by and created_at are never written.
func (r *repository) Update(ctx context.Context, property *model.Property) error {
	property.UpdatedAt = time.Now().UTC()

	result := r.db.WithContext(ctx).
		Model(&model.Property{}).
		Where("id = ?", property.ID).
		Updates(map[string]interface{}{
			"title":       property.Title,
			"address":     property.Address,
			"description": property.Description,
			"price":       property.Price,
			"bedrooms":    property.Bedrooms,
			"bathrooms":   property.Bathrooms,
			"sqft":        property.Sqft,
			"status":      property.Status,
			"image_url":   property.ImageURL,
			"updated_at":  property.UpdatedAt,
		})
	return r.checkWrite(result, "Update", property.ID)
}

// UpdateStatus writes only the status.
func (r *repository) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	result := r.db.WithContext(ctx).
		Model(&model.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return r.checkWrite(result, "UpdateStatus", id)
}

// UpdateImageURL writes only the image url.
func (r *repository) UpdateImageURL(ctx context.Context, id, imageURL string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Property{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"image_url":  imageURL,
			"updated_at": time.Now().UTC(),
		})
	return r.checkWrite(result, "UpdateImageURL", id)
}

// Delete removes a property.
func (r *repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Property{})
	return r.checkWrite(result, "Delete", id)
}

// ListByTeam returns the team's properties matching filter, newest first.
func (r *repository) ListByTeam(ctx context.Context, teamID string, filter *model.ListFilter) ([]model.Property, error) {
	query := r.db.WithContext(ctx).Where("team_id = ?", teamID)

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.MinPrice != nil {
			query = query.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			query = query.Where("price <= ?", *filter.MaxPrice)
		}
		if filter.MinBedrooms != nil {
			query = query.Where("bedrooms >= ?", *filter.MinBedrooms)
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			pattern := "%" + likeEscaper.Replace(search) + "%"
			query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(address) LIKE ? ESCAPE '\'`, pattern, pattern)
		}
	}

	properties := make([]model.Property, 0)
	if err := query.Order("created_at DESC").Order("id").Find(&properties).Error; err != nil {
		r.logger.Errorw("ListByTeam database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}
	return properties, nil
}

func (r *repository) checkWrite(result *gorm.DB, op, id string) error {
	if result.Error != nil {
		r.logger.Errorw(op+" property database error", "property_id", id, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrPropertyNotFound
	}
	return nil
}
