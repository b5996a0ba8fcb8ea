// Package service implements the property lifecycle: validation, team-scoped
// authorization, status transitions and cover image handling.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/cache"
	"github.com/festy23/realty_ops/internal/property/model"
	"github.com/festy23/realty_ops/internal/property/repository"
	storageModel "github.com/festy23/realty_ops/internal/storage/model"
	storageService "github.com/festy23/realty_ops/internal/storage/service"
	teamRepository "github.com/festy23/realty_ops/internal/team/repository"
	"github.com/festy23/realty_ops/internal/validation"
	"github.com/festy23/realty_ops/pkg/retry"
)

// Service defines the interface for property business logic operations.
// Every operation takes the acting user explicitly.
type Service interface {
	// Create validates input and stores a property for the actor's team.
	// An attached image is uploaded afterwards on a best-effort basis.
	Create(ctx context.Context, actorID string, input *model.PropertyInput, image *model.Image) (*model.Property, error)

	// Get returns a property of the actor's team, with a signed image URL when an image is stored.
	Get(ctx context.Context, actorID, id string) (*model.Property, error)

	// List returns the actor's team properties matching filter, newest first.
	List(ctx context.Context, actorID string, filter *model.ListFilter) ([]model.Property, error)

	// Update replaces the mutable fields of a property of the actor's team.
	Update(ctx context.Context, actorID, id string, input *model.PropertyInput, image *model.Image) (*model.Property, error)

	// UpdateStatus changes only the status.
	UpdateStatus(ctx context.Context, actorID, id, status string) (*model.Property, error)

	// Reopen moves a Sold or Lost property back to Marketing.
	Reopen(ctx context.Context, actorID, id string) (*model.Property, error)

	// UploadImage stores the cover image and saves a signed URL to it. Failures are returned.
	UploadImage(ctx context.Context, actorID, id string, image *model.Image) (*model.Property, error)

	// Delete removes a property of the actor's team and, best-effort, its image.
	Delete(ctx context.Context, actorID, id string) error
}

// Options configure lifecycle behavior.
type Options struct {
	// StrictTransitions rejects leaving Sold or Lost except through Reopen.
	StrictTransitions bool
	// PlaceholderImageURL is stored when a property is created without an image URL.
	PlaceholderImageURL string
	// SignedURLTTL is the lifetime of signed image URLs.
	SignedURLTTL time.Duration
	// Timeout bounds each database or object store call.
	Timeout time.Duration
}

type service struct {
	repo   repository.Repository
	db     *gorm.DB
	store  storageService.Store
	cache  cache.ListCache
	opts   Options
	upload retry.Config
	logger *zap.SugaredLogger
}

// New creates a new property service instance.
func New(
	repo repository.Repository,
	db *gorm.DB,
	store storageService.Store,
	listCache cache.ListCache,
	opts Options,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:   repo,
		db:     db,
		store:  store,
		cache:  listCache,
		opts:   opts,
		upload: retry.UploadConfig(),
		logger: logger,
	}
}

// domainErrors pass through collaborator classification unchanged.
var domainErrors = []error{
	authz.ErrNoTeamMembership,
	authz.ErrAmbiguousMembership,
	authz.ErrPropertyNotFound,
	authz.ErrCrossTeamAccess,
	model.ErrPropertyNotFound,
	model.ErrInvalidStatus,
	model.ErrInvalidTransition,
	model.ErrInvalidImage,
	model.ErrStorageUploadFailed,
	apperror.ErrValidationFailed,
}

// inTx runs fn in a transaction bounded by the per-call timeout. The authorizer
// reads through the same transaction as the write it guards.
func (s *service) inTx(
	ctx context.Context,
	fn func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error,
) error {
	_, err := apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			txRepo := repository.New(tx, s.logger)
			guard := authz.New(teamRepository.New(tx, s.logger), txRepo, s.logger)
			return fn(ctx, txRepo, guard)
		})
	})
	return apperror.FromDB(err, domainErrors...)
}

// Create validates input and stores a property for the actor's team.
func (s *service) Create(
	ctx context.Context,
	actorID string,
	input *model.PropertyInput,
	image *model.Image,
) (*model.Property, error) {
	s.logger.Debugw("Create property", "user_id", actorID)

	status, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	property := &model.Property{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Address:     input.Address,
		Description: input.Description,
		Price:       input.Price,
		Bedrooms:    input.Bedrooms,
		Bathrooms:   input.Bathrooms,
		Sqft:        input.Sqft,
		Status:      status,
		ImageURL:    s.opts.PlaceholderImageURL,
		CreatedBy:   actorID,
	}
	if input.ImageURL != nil {
		property.ImageURL = *input.ImageURL
	}

	err = s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		membership, authErr := guard.AuthorizeMutation(ctx, actorID, nil)
		if authErr != nil {
			return authErr
		}
		property.TeamID = membership.TeamID
		return repo.Create(ctx, property)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("property created", "property_id", property.ID, "team_id", property.TeamID, "user_id", actorID)

	s.uploadBestEffort(ctx, property.ID, image)
	s.invalidate(ctx, property.TeamID)

	return property, nil
}

// Get returns a property of the actor's team.
func (s *service) Get(ctx context.Context, actorID, id string) (*model.Property, error) {
	if !validID(id) {
		return nil, model.ErrPropertyNotFound
	}

	var property *model.Property
	err := s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		membership, authErr := guard.ResolveActorTeam(ctx, actorID)
		if authErr != nil {
			return authErr
		}
		found, getErr := repo.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if found.TeamID != membership.TeamID {
			return model.ErrPropertyNotFound
		}
		property = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if signed, ok := s.signedImageURL(ctx, property.ID); ok {
		property.ImageURL = signed
	}
	return property, nil
}

// List returns the actor's team properties matching filter, newest first.
func (s *service) List(ctx context.Context, actorID string, filter *model.ListFilter) ([]model.Property, error) {
	if filter == nil {
		filter = &model.ListFilter{}
	}
	if filter.Status != "" {
		if _, err := model.ParseStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	if err := validation.Struct(filter); err != nil {
		return nil, err
	}

	var teamID string
	err := s.inTx(ctx, func(ctx context.Context, _ repository.Repository, guard authz.Authorizer) error {
		membership, authErr := guard.ResolveActorTeam(ctx, actorID)
		if authErr != nil {
			return authErr
		}
		teamID = membership.TeamID
		return nil
	})
	if err != nil {
		return nil, err
	}

	params := filter.CacheParams()
	var properties []model.Property
	key, hit, err := s.cache.Get(ctx, teamID, params, &properties)
	if err != nil {
		s.logger.Warnw("property list cache read failed", "team_id", teamID, "error", err)
	} else if hit {
		return properties, nil
	}

	properties, err = apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) ([]model.Property, error) {
		return s.repo.ListByTeam(ctx, teamID, filter)
	})
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	if err := s.cache.Set(ctx, key, properties); err != nil {
		s.logger.Warnw("property list cache write failed", "team_id", teamID, "error", err)
	}
	return properties, nil
}

// Update replaces the mutable fields of a property of the actor's team.
func (s *service) Update(
	ctx context.Context,
	actorID, id string,
	input *model.PropertyInput,
	image *model.Image,
) (*model.Property, error) {
	s.logger.Debugw("Update property", "property_id", id, "user_id", actorID)

	status, err := validateInput(input)
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, model.ErrPropertyNotFound
	}

	var property *model.Property
	err = s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		if _, authErr := guard.AuthorizeMutation(ctx, actorID, &id); authErr != nil {
			return authErr
		}

		current, getErr := repo.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if transErr := s.checkTransition(current.Status, status); transErr != nil {
			return transErr
		}

		current.Title = input.Title
		current.Address = input.Address
		current.Description = input.Description
		current.Price = input.Price
		current.Bedrooms = input.Bedrooms
		current.Bathrooms = input.Bathrooms
		current.Sqft = input.Sqft
		current.Status = status
		if input.ImageURL != nil {
			current.ImageURL = *input.ImageURL
		}

		if updateErr := repo.Update(ctx, current); updateErr != nil {
			return updateErr
		}
		property = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("property updated", "property_id", id, "team_id", property.TeamID, "user_id", actorID)

	s.uploadBestEffort(ctx, id, image)
	s.invalidate(ctx, property.TeamID)

	return property, nil
}

// UpdateStatus changes only the status.
func (s *service) UpdateStatus(ctx context.Context, actorID, id, raw string) (*model.Property, error) {
	status, err := model.ParseStatus(strings.TrimSpace(raw))
	if err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, model.ErrPropertyNotFound
	}

	property, err := s.writeStatus(ctx, actorID, id, func(current model.Status) error {
		return s.checkTransition(current, status)
	}, status)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("property status updated", "property_id", id, "status", status, "user_id", actorID)
	return property, nil
}

// Reopen moves a Sold or Lost property back to Marketing.
func (s *service) Reopen(ctx context.Context, actorID, id string) (*model.Property, error) {
	if !validID(id) {
		return nil, model.ErrPropertyNotFound
	}

	property, err := s.writeStatus(ctx, actorID, id, func(current model.Status) error {
		if !current.Terminal() {
			return fmt.Errorf("%w: only Sold or Lost properties can be reopened", model.ErrInvalidTransition)
		}
		return nil
	}, model.StatusMarketing)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("property reopened", "property_id", id, "user_id", actorID)
	return property, nil
}

// writeStatus authorizes, checks the transition against the stored status and writes the new one.
func (s *service) writeStatus(
	ctx context.Context,
	actorID, id string,
	check func(current model.Status) error,
	status model.Status,
) (*model.Property, error) {
	var property *model.Property
	err := s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		if _, authErr := guard.AuthorizeMutation(ctx, actorID, &id); authErr != nil {
			return authErr
		}

		current, getErr := repo.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		if checkErr := check(current.Status); checkErr != nil {
			return checkErr
		}

		if updateErr := repo.UpdateStatus(ctx, id, status); updateErr != nil {
			return updateErr
		}

		updated, getErr := repo.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		property = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, property.TeamID)
	return property, nil
}

// UploadImage stores the cover image and saves a signed URL to it.
func (s *service) UploadImage(ctx context.Context, actorID, id string, image *model.Image) (*model.Property, error) {
	if image == nil || len(image.Data) == 0 {
		return nil, model.ErrInvalidImage
	}
	contentType := storageService.DetectContentType(image.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("%w: detected %s", model.ErrInvalidImage, contentType)
	}
	if !validID(id) {
		return nil, model.ErrPropertyNotFound
	}

	err := s.inTx(ctx, func(ctx context.Context, _ repository.Repository, guard authz.Authorizer) error {
		_, authErr := guard.AuthorizeMutation(ctx, actorID, &id)
		return authErr
	})
	if err != nil {
		return nil, err
	}

	if err := s.putImage(ctx, id, image.Data, contentType); err != nil {
		return nil, err
	}

	signed, err := apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (string, error) {
		return s.store.SignedURL(ctx, model.ImagePath(id), s.opts.SignedURLTTL)
	})
	if err != nil {
		return nil, apperror.FromDB(err)
	}

	var property *model.Property
	err = s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		if _, authErr := guard.AuthorizeMutation(ctx, actorID, &id); authErr != nil {
			return authErr
		}
		if updateErr := repo.UpdateImageURL(ctx, id, signed); updateErr != nil {
			return updateErr
		}
		updated, getErr := repo.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		property = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("property image uploaded", "property_id", id, "content_type", contentType, "user_id", actorID)
	s.invalidate(ctx, property.TeamID)
	return property, nil
}

// Delete removes a property of the actor's team and, best-effort, its image.
func (s *service) Delete(ctx context.Context, actorID, id string) error {
	if !validID(id) {
		return model.ErrPropertyNotFound
	}

	var teamID string
	err := s.inTx(ctx, func(ctx context.Context, repo repository.Repository, guard authz.Authorizer) error {
		membership, authErr := guard.AuthorizeMutation(ctx, actorID, &id)
		if authErr != nil {
			return authErr
		}
		teamID = membership.TeamID
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("property deleted", "property_id", id, "team_id", teamID, "user_id", actorID)

	_, err = apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.store.Delete(ctx, model.ImagePath(id))
	})
	if err != nil && !errors.Is(err, storageModel.ErrObjectNotFound) {
		s.logger.Warnw("property image cleanup failed", "property_id", id, "error", err)
	}

	s.invalidate(ctx, teamID)
	return nil
}

// checkTransition enforces terminal states when strict transitions are enabled.
func (s *service) checkTransition(from, to model.Status) error {
	if !s.opts.StrictTransitions || !from.Terminal() || from == to {
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, from, to)
}

// uploadBestEffort stores an attached image; failures are logged and never
// returned, the property write is already committed.
func (s *service) uploadBestEffort(ctx context.Context, id string, image *model.Image) {
	if image == nil || len(image.Data) == 0 {
		return
	}

	contentType := storageService.DetectContentType(image.Data)
	if !strings.HasPrefix(contentType, "image/") {
		s.logger.Warnw("skipping non-image upload", "property_id", id, "content_type", contentType)
		return
	}

	if err := s.putImage(ctx, id, image.Data, contentType); err != nil {
		s.logger.Warnw("property image upload failed", "property_id", id, "error", err)
	}
}

// putImage overwrites the object at the property's image path, retrying transient failures.
func (s *service) putImage(ctx context.Context, id string, data []byte, contentType string) error {
	cfg := s.upload
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		s.logger.Warnw("retrying image upload", "property_id", id, "attempt", attempt, "delay", delay, "error", err)
	}

	err := retry.Do(ctx, cfg, func() error {
		_, err := apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (*storageModel.Object, error) {
			return s.store.Upload(ctx, model.ImagePath(id), data, contentType, storageModel.UploadOptions{Overwrite: true})
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrStorageUploadFailed, apperror.FromDB(err))
	}
	return nil
}

// signedImageURL returns a signed URL when an image is stored for the property.
func (s *service) signedImageURL(ctx context.Context, id string) (string, bool) {
	signed, err := apperror.WithTimeout(ctx, s.opts.Timeout, func(ctx context.Context) (string, error) {
		return s.store.SignedURL(ctx, model.ImagePath(id), s.opts.SignedURLTTL)
	})
	if err != nil {
		if !errors.Is(err, storageModel.ErrObjectNotFound) {
			s.logger.Warnw("signing property image failed", "property_id", id, "error", err)
		}
		return "", false
	}
	return signed, true
}

// invalidate drops the team's cached list pages.
func (s *service) invalidate(ctx context.Context, teamID string) {
	if err := s.cache.Invalidate(ctx, teamID); err != nil {
		s.logger.Warnw("property list cache invalidation failed", "team_id", teamID, "error", err)
	}
}

// validateInput normalizes and validates input and resolves its status. A blank status means Acquisition.
func validateInput(input *model.PropertyInput) (model.Status, error) {
	if input == nil {
		return "", apperror.NewValidationError("title", "address", "price", "bedrooms", "bathrooms", "sqft")
	}
	input.Normalize()

	if err := validation.Struct(input); err != nil {
		return "", err
	}

	if input.Status == "" {
		return model.StatusAcquisition, nil
	}
	return model.ParseStatus(input.Status)
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
