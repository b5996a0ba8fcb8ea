// Package router provides team module routes registration.
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/notify"
	"github.com/festy23/realty_ops/internal/team/handler"
	"github.com/festy23/realty_ops/internal/team/repository"
	"github.com/festy23/realty_ops/internal/team/service"
)

// RegisterRoutes registers team module routes on an authenticated group.
func RegisterRoutes(
	r gin.IRouter,
	db *gorm.DB,
	directory service.Directory,
	notifier notify.Notifier,
	timeout time.Duration,
	logger *zap.SugaredLogger,
) {
	repo := repository.New(db, logger)
	svc := service.New(repo, db, directory, notifier, timeout, logger)
	h := handler.New(svc, logger)

	teams := r.Group("/teams")
	teams.POST("", h.CreateTeam)
	teams.GET("", h.ListTeams)
	teams.GET("/:id", h.GetTeam)
	teams.PATCH("/:id", h.UpdateTeam)
	teams.DELETE("/:id", h.DeleteTeam)
	teams.POST("/:id/members", h.InviteMember)
	teams.PATCH("/:id/members/:user_id", h.UpdateMemberRole)
	teams.DELETE("/:id/members/:user_id", h.RemoveMember)
}
