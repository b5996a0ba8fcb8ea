//go:build integration

package main

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/config"
	"github.com/festy23/realty_ops/internal/database"
	"github.com/festy23/realty_ops/internal/database/migrate"
	teamModel "github.com/festy23/realty_ops/internal/team/model"
	teamRepository "github.com/festy23/realty_ops/internal/team/repository"
)

// PostgresAPISuite runs the API suite against postgres with the SQL migrations applied,
// so CHECK and foreign key constraints take part.
type PostgresAPISuite struct {
	APISuite
	ctx       context.Context
	container *postgres.PostgresContainer
}

func (s *PostgresAPISuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx,
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
	s.Require().NoError(err, "failed to start PostgreSQL container")
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "5432/tcp")
	s.Require().NoError(err)

	db, err := database.Open(s.ctx, config.DatabaseConfig{
		Driver:   "postgres",
		Host:     host,
		User:     "testuser",
		Password: "testpass",
		DBName:   "realty_ops",
		Port:     strconv.Itoa(port.Int()),
		SSLMode:  "disable",
		TimeZone: "UTC",
		Retry:    config.RetryConfig{MaxAttempts: 5, InitialDelay: 200 * time.Millisecond, MaxDelay: 2 * time.Second, Multiplier: 2},
		Pool:     config.PoolConfig{MaxOpenConns: 10, MaxIdleConns: 2, ConnMaxLifetime: time.Minute, ConnMaxIdleTime: time.Minute},
	}, zap.NewNop().Sugar())
	s.Require().NoError(err)
	s.Require().NoError(migrate.Apply(db, "postgres", "../../migrations"))

	s.start(db)
}

func (s *PostgresAPISuite) TearDownSuite() {
	s.APISuite.TearDownSuite()
	if s.db != nil {
		_ = database.Close(s.db)
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresAPISuite) TestOneMembershipPerUser() {
	_, alice := s.signUp("alice@realty.test")
	bobID, bob := s.signUp("bob@realty.test")
	northID := s.createTeam(alice, "North")
	s.createTeam(bob, "South")

	// an insert that got past the membership check still hits the unique index
	repo := teamRepository.New(s.db, zap.NewNop().Sugar())
	err := repo.AddMember(s.ctx, &teamModel.Member{
		ID: uuid.NewString(), TeamID: northID, UserID: bobID, Role: teamModel.RoleMember,
	})
	s.ErrorIs(err, teamModel.ErrAlreadyInTeam)
}

func TestPostgresAPI(t *testing.T) {
	suite.Run(t, new(PostgresAPISuite))
}
