// Package main provides the entry point for the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	analyticsModel "github.com/festy23/realty_ops/internal/analytics/model"
	analyticsRouter "github.com/festy23/realty_ops/internal/analytics/router"
	"github.com/festy23/realty_ops/internal/cache"
	"github.com/festy23/realty_ops/internal/config"
	"github.com/festy23/realty_ops/internal/database"
	"github.com/festy23/realty_ops/internal/database/migrate"
	"github.com/festy23/realty_ops/internal/health"
	identityModel "github.com/festy23/realty_ops/internal/identity/model"
	identityRepository "github.com/festy23/realty_ops/internal/identity/repository"
	identityRouter "github.com/festy23/realty_ops/internal/identity/router"
	inquiryModel "github.com/festy23/realty_ops/internal/inquiry/model"
	inquiryRouter "github.com/festy23/realty_ops/internal/inquiry/router"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/notify"
	propertyModel "github.com/festy23/realty_ops/internal/property/model"
	propertyRouter "github.com/festy23/realty_ops/internal/property/router"
	propertyService "github.com/festy23/realty_ops/internal/property/service"
	storageModel "github.com/festy23/realty_ops/internal/storage/model"
	storageRepository "github.com/festy23/realty_ops/internal/storage/repository"
	storageRouter "github.com/festy23/realty_ops/internal/storage/router"
	storageService "github.com/festy23/realty_ops/internal/storage/service"
	teamModel "github.com/festy23/realty_ops/internal/team/model"
	teamRouter "github.com/festy23/realty_ops/internal/team/router"
	appLogger "github.com/festy23/realty_ops/pkg/logger"
)

// schemaModels back the sqlite schema; postgres uses the SQL migrations.
func schemaModels() []any {
	return []any{
		&identityModel.Profile{},
		&teamModel.Team{},
		&teamModel.Member{},
		&propertyModel.Property{},
		&storageModel.Object{},
		&inquiryModel.Inquiry{},
		&analyticsModel.Metric{},
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfg := config.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	sugar, err := appLogger.NewWithConfig(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = sugar.Sync() }()

	if err := run(cfg, sugar); err != nil {
		sugar.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg config.Config, logger *zap.SugaredLogger) error {
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			return fmt.Errorf("failed to init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	if cfg.Database.AutoMigrate {
		err := migrate.Apply(db, cfg.Database.Driver, cfg.Database.MigrationsPath, schemaModels()...)
		if err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		logger.Infow("migrations applied", "driver", cfg.Database.Driver)
	}

	listCache := cache.New(cfg.Cache, logger)
	defer func() { _ = listCache.Close() }()

	r := newRouter(cfg, db, listCache, notify.New(cfg.Mail, logger), logger)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infow("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Infow("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// newRouter wires every module onto a gin engine. Storage object URLs and /auth are public;
// the remaining API requires a bearer token.
func newRouter(
	cfg config.Config,
	db *gorm.DB,
	listCache cache.ListCache,
	notifier notify.Notifier,
	logger *zap.SugaredLogger,
) *gin.Engine {
	store := storageService.New(storageRepository.New(db, logger), cfg.Storage, logger)

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logger(logger))

	var cachePinger health.Pinger
	if cfg.Cache.Enabled {
		cachePinger = listCache
	}
	r.GET("/health", health.New(db, cachePinger, logger).Check)

	identity := identityRouter.RegisterRoutes(r, db, cfg.Auth, logger)
	storageRouter.RegisterRoutes(r, store, logger)

	api := r.Group("", middleware.Auth(identity))
	teamRouter.RegisterRoutes(api, db, identityRepository.New(db, logger), notifier, cfg.CollaboratorTimeout, logger)
	propertyRouter.RegisterRoutes(api, db, store, listCache, propertyService.Options{
		StrictTransitions:   cfg.Property.StrictTransitions,
		PlaceholderImageURL: cfg.Property.PlaceholderImageURL,
		SignedURLTTL:        cfg.Storage.SignedURLTTL,
		Timeout:             cfg.CollaboratorTimeout,
	}, cfg.Storage.MaxUploadBytes, logger)
	inquiryRouter.RegisterRoutes(api, db, cfg.CollaboratorTimeout, logger)
	analyticsRouter.RegisterRoutes(api, db, cfg.CollaboratorTimeout, logger)

	return r
}
