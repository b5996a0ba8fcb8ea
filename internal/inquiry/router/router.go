// Package router provides inquiry module routes registration.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/inquiry/handler"
	"github.com/festy23/realty_ops/internal/inquiry/repository"
	"github.com/festy23/realty_ops/internal/inquiry/service"
	propertyRepository "github.com/festy23/realty_ops/internal/property/repository"
	teamRepository "github.com/festy23/realty_ops/internal/team/repository"
)

// RegisterRoutes registers inquiry module routes on an authenticated group.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, timeout time.Duration, logger *zap.SugaredLogger) {
	guard := authz.New(teamRepository.New(db, logger), propertyRepository.New(db, logger), logger)
	svc := service.New(repository.New(db, logger), guard, timeout, logger)
	h := handler.New(svc, logger)

	inquiries := r.Group("/inquiries")
	inquiries.GET("", h.List)
	inquiries.PATCH("/:id/status", h.UpdateStatus)
}
