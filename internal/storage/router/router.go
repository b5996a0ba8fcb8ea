// Package router provides storage module routes registration.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/storage/handler"
	"github.com/festy23/realty_ops/internal/storage/service"
)

// RegisterRoutes registers the public object route. Access is granted by the URL token.
func RegisterRoutes(r gin.IRouter, store service.Store, logger *zap.SugaredLogger) {
	h := handler.New(store, logger)
	r.GET(service.ObjectRoute+"*path", h.GetObject)
}
