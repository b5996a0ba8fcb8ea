// Package router provides analytics module routes registration.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/analytics/handler"
	"github.com/festy23/realty_ops/internal/analytics/repository"
	"github.com/festy23/realty_ops/internal/analytics/service"
	"github.com/festy23/realty_ops/internal/authz"
	propertyRepository "github.com/festy23/realty_ops/internal/property/repository"
	teamRepository "github.com/festy23/realty_ops/internal/team/repository"
)

// RegisterRoutes registers analytics module routes on an authenticated group.
func RegisterRoutes(r gin.IRouter, db *gorm.DB, timeout time.Duration, logger *zap.SugaredLogger) {
	guard := authz.New(teamRepository.New(db, logger), propertyRepository.New(db, logger), logger)
	svc := service.New(repository.New(db, logger), guard, timeout, logger)
	h := handler.New(svc, logger)

	analytics := r.Group("/analytics")
	analytics.GET("/properties", h.GetPropertyBreakdown)
	analytics.GET("/metrics", h.GetMetrics)
}
