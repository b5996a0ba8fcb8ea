package authz

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/apperror"
	teamModel "github.com/festy23/realty_ops/internal/team/model"
)

type mockMembers struct {
	mock.Mock
}

func (m *mockMembers) MembershipsForUser(ctx context.Context, userID string) ([]teamModel.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]teamModel.Member), args.Error(1)
}

type mockProperties struct {
	mock.Mock
}

func (m *mockProperties) PropertyTeamID(ctx context.Context, propertyID string) (string, error) {
	args := m.Called(ctx, propertyID)
	return args.String(0), args.Error(1)
}

func ptr(s string) *string {
	return &s
}

func TestResolveActorTeam(t *testing.T) {
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	tests := []struct {
		name    string
		rows    []teamModel.Member
		err     error
		want    *Membership
		wantErr error
	}{
		{
			name:    "no membership",
			rows:    []teamModel.Member{},
			wantErr: ErrNoTeamMembership,
		},
		{
			name: "single membership",
			rows: []teamModel.Member{{TeamID: "t1", UserID: "u1", Role: teamModel.RoleMember}},
			want: &Membership{TeamID: "t1", Role: teamModel.RoleMember},
		},
		{
			name: "multiple memberships",
			rows: []teamModel.Member{
				{TeamID: "t1", UserID: "u1", Role: teamModel.RoleAdmin},
				{TeamID: "t2", UserID: "u1", Role: teamModel.RoleMember},
			},
			wantErr: ErrAmbiguousMembership,
		},
		{
			name:    "lookup failure",
			err:     dbErr,
			wantErr: dbErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := new(mockMembers)
			members.On("MembershipsForUser", ctx, "u1").Return(tt.rows, tt.err)

			got, err := New(members, new(mockProperties), zap.NewNop().Sugar()).ResolveActorTeam(ctx, "u1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorizeMutation(t *testing.T) {
	ctx := context.Background()
	member := []teamModel.Member{{TeamID: "t1", UserID: "u1", Role: teamModel.RoleMember}}

	t.Run("create path needs only a team", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return(member, nil)
		properties := new(mockProperties)

		got, err := New(members, properties, zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", nil)

		require.NoError(t, err)
		assert.Equal(t, "t1", got.TeamID)
		properties.AssertNotCalled(t, "PropertyTeamID", mock.Anything, mock.Anything)
	})

	t.Run("create path without team", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return([]teamModel.Member{}, nil)

		_, err := New(members, new(mockProperties), zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", nil)

		assert.ErrorIs(t, err, ErrNoTeamMembership)
	})

	t.Run("same team member may mutate", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return(member, nil)
		properties := new(mockProperties)
		properties.On("PropertyTeamID", ctx, "p1").Return("t1", nil)

		got, err := New(members, properties, zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", ptr("p1"))

		require.NoError(t, err)
		assert.Equal(t, teamModel.RoleMember, got.Role)
	})

	t.Run("other team", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return(member, nil)
		properties := new(mockProperties)
		properties.On("PropertyTeamID", ctx, "p1").Return("t2", nil)

		got, err := New(members, properties, zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", ptr("p1"))

		assert.ErrorIs(t, err, ErrCrossTeamAccess)
		assert.Nil(t, got)
		assert.NotContains(t, err.Error(), "t2")
	})

	t.Run("missing property", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return(member, nil)
		properties := new(mockProperties)
		properties.On("PropertyTeamID", ctx, "p1").Return("", nil)

		_, err := New(members, properties, zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", ptr("p1"))

		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})

	t.Run("membership is checked before the property", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", ctx, "u1").Return([]teamModel.Member{}, nil)
		properties := new(mockProperties)

		_, err := New(members, properties, zap.NewNop().Sugar()).AuthorizeMutation(ctx, "u1", ptr("p1"))

		assert.ErrorIs(t, err, ErrNoTeamMembership)
		properties.AssertNotCalled(t, "PropertyTeamID", mock.Anything, mock.Anything)
	})
}

type stalledMembers struct{}

func (stalledMembers) MembershipsForUser(ctx context.Context, _ string) ([]teamModel.Member, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestResolveWithin(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop().Sugar()

	t.Run("stalled lookup times out", func(t *testing.T) {
		guard := New(stalledMembers{}, new(mockProperties), logger)
		_, err := ResolveWithin(ctx, guard, 20*time.Millisecond, "u1")
		assert.ErrorIs(t, err, apperror.ErrTimeout)
	})

	t.Run("membership sentinels pass through", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", mock.Anything, "u1").Return([]teamModel.Member{}, nil)

		_, err := ResolveWithin(ctx, New(members, new(mockProperties), logger), time.Second, "u1")
		assert.ErrorIs(t, err, ErrNoTeamMembership)
		assert.NotErrorIs(t, err, apperror.ErrPersistenceFailed)
	})

	t.Run("resolved membership", func(t *testing.T) {
		members := new(mockMembers)
		members.On("MembershipsForUser", mock.Anything, "u1").
			Return([]teamModel.Member{{TeamID: "t1", UserID: "u1", Role: teamModel.RoleAdmin}}, nil)

		got, err := ResolveWithin(ctx, New(members, new(mockProperties), logger), time.Second, "u1")
		require.NoError(t, err)
		assert.Equal(t, &Membership{TeamID: "t1", Role: teamModel.RoleAdmin}, got)
	})
}
