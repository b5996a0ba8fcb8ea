// Package router provides property module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/cache"
	"github.com/festy23/realty_ops/internal/property/handler"
	"github.com/festy23/realty_ops/internal/property/repository"
	"github.com/festy23/realty_ops/internal/property/service"
	storageService "github.com/festy23/realty_ops/internal/storage/service"
)

// RegisterRoutes registers property module routes on an authenticated group.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	store storageService.Store,
	listCache cache.ListCache,
	opts service.Options,
	maxUploadBytes int64,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db, logger)
	svc := service.New(repo, db, store, listCache, opts, logger)
	h := handler.New(svc, maxUploadBytes, logger)

	properties := r.Group("/properties")
	properties.POST("", h.Create)
	properties.GET("", h.List)
	properties.GET("/:id", h.Get)
	properties.PUT("/:id", h.Update)
	properties.PATCH("/:id/status", h.UpdateStatus)
	properties.POST("/:id/reopen", h.Reopen)
	properties.POST("/:id/image", h.UploadImage)
	properties.DELETE("/:id", h.Delete)
}
