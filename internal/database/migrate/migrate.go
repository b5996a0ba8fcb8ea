// Package migrate applies the SQL schema under migrations/.
package migrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// ErrNilConnection is returned when Up is called without a connection.
var ErrNilConnection = errors.New("database connection is nil")

// Up applies all pending migrations found in dir. Already-applied schemas are a no-op.
func Up(db *gorm.DB, dir string) error {
	if db == nil {
		return ErrNilConnection
	}

	migrationsPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for migrations: %w", err)
	}
	if _, statErr := os.Stat(migrationsPath); os.IsNotExist(statErr) {
		return fmt.Errorf("migrations directory does not exist: %s", migrationsPath)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}

// Apply brings the schema up to date for the given driver. Postgres runs the SQL migrations in dir;
// sqlite, used for local runs, is derived from the gorm models.
func Apply(db *gorm.DB, driver, dir string, models ...any) error {
	switch driver {
	case "postgres":
		return Up(db, dir)
	case "sqlite":
		if db == nil {
			return ErrNilConnection
		}
		if err := db.AutoMigrate(models...); err != nil {
			return fmt.Errorf("failed to auto-migrate models: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
}
