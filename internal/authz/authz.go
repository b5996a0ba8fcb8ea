// Package authz gates property mutations behind team membership.
package authz

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/apperror"
	teamModel "github.com/festy23/realty_ops/internal/team/model"
)

// Membership is the team an actor acts for.
type Membership struct {
	TeamID string
	Role   teamModel.Role
}

// MembershipLookup returns every membership row of a user.
type MembershipLookup interface {
	MembershipsForUser(ctx context.Context, userID string) ([]teamModel.Member, error)
}

// PropertyLookup returns the owning team of a property, or an empty string when
// no such property exists.
type PropertyLookup interface {
	PropertyTeamID(ctx context.Context, propertyID string) (string, error)
}

// Authorizer defines the authorization checks run before property writes.
type Authorizer interface {
	// ResolveActorTeam returns the single team the actor belongs to.
	ResolveActorTeam(ctx context.Context, actorID string) (*Membership, error)

	// AuthorizeMutation resolves the actor's team and, when propertyID is set,
	// checks that the property belongs to it. Any role may mutate property data.
	AuthorizeMutation(ctx context.Context, actorID string, propertyID *string) (*Membership, error)
}

type authorizer struct {
	members    MembershipLookup
	properties PropertyLookup
	logger     *zap.SugaredLogger
}

// New creates a new authorizer. Both lookups should share the caller's
// transaction so the check and the write see the same rows.
func New(members MembershipLookup, properties PropertyLookup, logger *zap.SugaredLogger) Authorizer {
	return &authorizer{
		members:    members,
		properties: properties,
		logger:     logger,
	}
}

// ResolveActorTeam returns the single team the actor belongs to.
func (a *authorizer) ResolveActorTeam(ctx context.Context, actorID string) (*Membership, error) {
	rows, err := a.members.MembershipsForUser(ctx, actorID)
	if err != nil {
		return nil, err
	}

	switch len(rows) {
	case 0:
		return nil, ErrNoTeamMembership
	case 1:
		return &Membership{TeamID: rows[0].TeamID, Role: rows[0].Role}, nil
	default:
		a.logger.Warnw("actor has multiple team memberships", "user_id", actorID, "count", len(rows))
		return nil, ErrAmbiguousMembership
	}
}

// AuthorizeMutation resolves the actor's team and, when propertyID is set,
// checks that the property belongs to it.
func (a *authorizer) AuthorizeMutation(ctx context.Context, actorID string, propertyID *string) (*Membership, error) {
	membership, err := a.ResolveActorTeam(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if propertyID == nil {
		return membership, nil
	}

	teamID, err := a.properties.PropertyTeamID(ctx, *propertyID)
	if err != nil {
		return nil, err
	}
	if teamID == "" {
		return nil, ErrPropertyNotFound
	}
	if teamID != membership.TeamID {
		a.logger.Warnw("cross-team mutation rejected",
			"user_id", actorID,
			"property_id", *propertyID,
			"actor_team_id", membership.TeamID,
		)
		return nil, ErrCrossTeamAccess
	}

	return membership, nil
}

// ResolveWithin runs guard.ResolveActorTeam bounded by timeout. Store failures are
// classified, so a stalled lookup surfaces as apperror.ErrTimeout.
func ResolveWithin(ctx context.Context, guard Authorizer, timeout time.Duration, actorID string) (*Membership, error) {
	membership, err := apperror.WithTimeout(ctx, timeout, func(ctx context.Context) (*Membership, error) {
		return guard.ResolveActorTeam(ctx, actorID)
	})
	if err != nil {
		return nil, apperror.FromDB(err, ErrNoTeamMembership, ErrAmbiguousMembership)
	}
	return membership, nil
}
