// Package router provides identity module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/config"
	"github.com/festy23/realty_ops/internal/identity/handler"
	"github.com/festy23/realty_ops/internal/identity/repository"
	"github.com/festy23/realty_ops/internal/identity/service"
	"github.com/festy23/realty_ops/internal/middleware"
)

// RegisterRoutes registers the /auth routes and returns the service so callers can
// authenticate other route groups with it.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, cfg config.AuthConfig, logger *zap.SugaredLogger) service.Service {
	repo := repository.New(db, logger)
	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, cfg.Issuer)
	svc := service.New(repo, tokens, logger)
	h := handler.New(svc, logger)

	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.GET("/me", middleware.Auth(svc), h.Me)

	return svc
}
