package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/analytics/model"
	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/authz"
	propertyModel "github.com/festy23/realty_ops/internal/property/model"
	teamModel "github.com/festy23/realty_ops/internal/team/model"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) StatusCounts(ctx context.Context, teamID string) ([]model.StatusCount, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.StatusCount), args.Error(1)
}

func (m *mockRepository) PriceSummary(ctx context.Context, teamID string) (*model.PriceSummary, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PriceSummary), args.Error(1)
}

func (m *mockRepository) Metrics(ctx context.Context, teamID string, from, to *time.Time) ([]model.Metric, error) {
	args := m.Called(ctx, teamID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Metric), args.Error(1)
}

type mockAuthorizer struct {
	mock.Mock
}

func (m *mockAuthorizer) ResolveActorTeam(ctx context.Context, actorID string) (*authz.Membership, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authz.Membership), args.Error(1)
}

func (m *mockAuthorizer) AuthorizeMutation(ctx context.Context, actorID string, propertyID *string) (*authz.Membership, error) {
	args := m.Called(ctx, actorID, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authz.Membership), args.Error(1)
}

func newService(repo *mockRepository, guard *mockAuthorizer) Service {
	return New(repo, guard, time.Second, zap.NewNop().Sugar())
}

func TestService_PropertyBreakdown(t *testing.T) {
	ctx := context.Background()
	membership := &authz.Membership{TeamID: "t1", Role: teamModel.RoleMember}

	t.Run("fills empty stages in pipeline order", func(t *testing.T) {
		repo, guard := new(mockRepository), new(mockAuthorizer)
		guard.On("ResolveActorTeam", mock.Anything, "u1").Return(membership, nil)
		repo.On("StatusCounts", mock.Anything, "t1").Return([]model.StatusCount{
			{Status: propertyModel.StatusSold, Count: 1},
			{Status: propertyModel.StatusAcquisition, Count: 4},
		}, nil)
		repo.On("PriceSummary", mock.Anything, "t1").
			Return(&model.PriceSummary{Total: 5, TotalValue: 1000000, AveragePrice: 200000}, nil)

		got, err := newService(repo, guard).PropertyBreakdown(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, []model.StatusCount{
			{Status: propertyModel.StatusAcquisition, Count: 4},
			{Status: propertyModel.StatusPreparation, Count: 0},
			{Status: propertyModel.StatusMarketing, Count: 0},
			{Status: propertyModel.StatusSold, Count: 1},
			{Status: propertyModel.StatusLost, Count: 0},
		}, got.ByStatus)
		assert.Equal(t, 5, got.Total)
		assert.Equal(t, 200000.0, got.AveragePrice)
		repo.AssertExpectations(t)
	})

	t.Run("no team", func(t *testing.T) {
		repo, guard := new(mockRepository), new(mockAuthorizer)
		guard.On("ResolveActorTeam", mock.Anything, "u1").Return(nil, authz.ErrNoTeamMembership)

		_, err := newService(repo, guard).PropertyBreakdown(ctx, "u1")
		assert.ErrorIs(t, err, authz.ErrNoTeamMembership)
		repo.AssertNotCalled(t, "StatusCounts", mock.Anything, mock.Anything)
	})

	t.Run("store failure is classified", func(t *testing.T) {
		repo, guard := new(mockRepository), new(mockAuthorizer)
		guard.On("ResolveActorTeam", mock.Anything, "u1").Return(membership, nil)
		repo.On("StatusCounts", mock.Anything, "t1").Return(nil, errors.New("connection reset"))

		_, err := newService(repo, guard).PropertyBreakdown(ctx, "u1")
		assert.ErrorIs(t, err, apperror.ErrPersistenceFailed)
	})
}

func TestService_Metrics(t *testing.T) {
	ctx := context.Background()
	membership := &authz.Membership{TeamID: "t1", Role: teamModel.RoleAdmin}
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("passes rows through", func(t *testing.T) {
		repo, guard := new(mockRepository), new(mockAuthorizer)
		guard.On("ResolveActorTeam", mock.Anything, "u1").Return(membership, nil)
		rows := []model.Metric{{ID: "m1", TeamID: "t1", Period: from, Views: 12}}
		repo.On("Metrics", mock.Anything, "t1", &from, &to).Return(rows, nil)

		got, err := newService(repo, guard).Metrics(ctx, "u1", &from, &to)
		require.NoError(t, err)
		assert.Equal(t, rows, got.Metrics)
	})

	t.Run("inverted range", func(t *testing.T) {
		repo, guard := new(mockRepository), new(mockAuthorizer)

		_, err := newService(repo, guard).Metrics(ctx, "u1", &to, &from)
		assert.ErrorIs(t, err, model.ErrInvalidRange)
		guard.AssertNotCalled(t, "ResolveActorTeam", mock.Anything, mock.Anything)
	})
}
