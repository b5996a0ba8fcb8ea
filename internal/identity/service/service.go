// Package service provides business logic layer for the identity module.
package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/festy23/realty_ops/internal/identity/model"
	"github.com/festy23/realty_ops/internal/identity/repository"
	"github.com/festy23/realty_ops/internal/validation"
)

// Service defines the interface for identity operations.
type Service interface {
	// Register creates a profile with a hashed password.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error)

	// Login checks credentials and issues an access token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error)

	// CurrentUser returns the identity of actorID.
	CurrentUser(ctx context.Context, actorID string) (*model.CurrentUser, error)

	// ParseToken verifies an access token and returns the actor id it was issued to.
	ParseToken(token string) (string, error)
}

type service struct {
	repo     repository.Repository
	tokens   *TokenManager
	hashCost int
	logger   *zap.SugaredLogger
}

// New creates a new identity service instance.
func New(repo repository.Repository, tokens *TokenManager, logger *zap.SugaredLogger) Service {
	return &service{repo: repo, tokens: tokens, hashCost: bcrypt.DefaultCost, logger: logger}
}

// Register creates a profile with a hashed password.
func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.Profile, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		s.logger.Debugw("Register validation failed", "error", err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CompanyName:  req.CompanyName,
		PhoneNumber:  req.PhoneNumber,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Infow("profile registered", "user_id", profile.ID)
	return profile, nil
}

// Login checks credentials and issues an access token.
func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Debugw("Login password mismatch", "user_id", profile.ID)
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(profile)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("login succeeded", "user_id", profile.ID)
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        *profile,
	}, nil
}

// CurrentUser returns the identity of actorID.
func (s *service) CurrentUser(ctx context.Context, actorID string) (*model.CurrentUser, error) {
	profile, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return &model.CurrentUser{ID: profile.ID, Email: profile.Email}, nil
}

// ParseToken verifies an access token and returns the actor id it was issued to.
func (s *service) ParseToken(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
