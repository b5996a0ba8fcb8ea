//go:build integration

package database

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/config"
	"github.com/festy23/realty_ops/internal/database/migrate"
)

func TestPostgres_OpenAndMigrate(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("realty_ops"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		User:     "testuser",
		Password: "testpass",
		DBName:   "realty_ops",
		Port:     strconv.Itoa(port.Int()),
		SSLMode:  "disable",
		TimeZone: "UTC",
		Retry:    config.RetryConfig{MaxAttempts: 5, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2},
		Pool:     config.PoolConfig{MaxOpenConns: 5, MaxIdleConns: 1, ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Minute},
	}

	db, err := Open(ctx, cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, migrate.Up(db, "../../migrations"))
	// Re-applying is a no-op.
	require.NoError(t, migrate.Up(db, "../../migrations"))

	for _, table := range []string{"profiles", "teams", "team_members", "properties", "storage_objects", "inquiries", "property_metrics"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}

	var count int64
	err = db.Raw(`SELECT count(*) FROM information_schema.table_constraints
		WHERE table_name = 'team_members' AND constraint_name = 'team_members_team_user_key'`).Scan(&count).Error
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
