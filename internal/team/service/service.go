// Package service provides business logic layer for the team module.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	identityModel "github.com/festy23/realty_ops/internal/identity/model"
	"github.com/festy23/realty_ops/internal/notify"
	"github.com/festy23/realty_ops/internal/team/model"
	"github.com/festy23/realty_ops/internal/team/repository"
	"github.com/festy23/realty_ops/internal/validation"
)

// Directory looks up registered users.
type Directory interface {
	GetByID(ctx context.Context, id string) (*identityModel.Profile, error)
	GetByEmail(ctx context.Context, email string) (*identityModel.Profile, error)
}

// Service defines the interface for team business logic operations.
type Service interface {
	// CreateTeam creates a team with the actor as its first admin.
	CreateTeam(ctx context.Context, actorID string, req *model.CreateTeamRequest) (*model.TeamResponse, error)

	// ListTeams returns the teams the actor belongs to.
	ListTeams(ctx context.Context, actorID string) ([]model.TeamSummary, error)

	// GetTeam returns a team with members. Only members can see it.
	GetTeam(ctx context.Context, actorID, teamID string) (*model.TeamResponse, error)

	// UpdateTeam changes team details. Admin only.
	UpdateTeam(ctx context.Context, actorID, teamID string, req *model.UpdateTeamRequest) (*model.Team, error)

	// DeleteTeam deletes a team that owns no properties. Admin only.
	DeleteTeam(ctx context.Context, actorID, teamID string) error

	// InviteMember adds an existing user to the team as a member. Admin only.
	InviteMember(ctx context.Context, actorID, teamID string, req *model.InviteRequest) (*model.MemberResponse, error)

	// UpdateMemberRole changes a member's role. Admin only.
	UpdateMemberRole(ctx context.Context, actorID, teamID, userID string, role model.Role) error

	// RemoveMember removes a member from the team. Admin only.
	RemoveMember(ctx context.Context, actorID, teamID, userID string) error
}

type service struct {
	repo      repository.Repository
	db        *gorm.DB
	directory Directory
	notifier  notify.Notifier
	timeout   time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new team service instance.
func New(
	repo repository.Repository,
	db *gorm.DB,
	directory Directory,
	notifier notify.Notifier,
	timeout time.Duration,
	logger *zap.SugaredLogger,
) Service {
	return &service{
		repo:      repo,
		db:        db,
		directory: directory,
		notifier:  notifier,
		timeout:   timeout,
		logger:    logger,
	}
}

var domainErrors = []error{
	model.ErrTeamNotFound,
	model.ErrNotTeamAdmin,
	model.ErrAlreadyInTeam,
	model.ErrAlreadyMember,
	model.ErrUserNotFound,
	model.ErrMemberNotFound,
	model.ErrInvalidRole,
	model.ErrTeamHasProperties,
}

// call runs fn bounded by the per-call timeout.
func (s *service) call(ctx context.Context, fn func(ctx context.Context) error) error {
	_, err := apperror.WithTimeout(ctx, s.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return apperror.FromDB(err, domainErrors...)
}

// inTx runs fn in a transaction bounded by the per-call timeout.
func (s *service) inTx(ctx context.Context, fn func(ctx context.Context, repo repository.Repository) error) error {
	return s.call(ctx, func(ctx context.Context) error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(ctx, repository.New(tx, s.logger))
		})
	})
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CreateTeam creates a team with the actor as its first admin.
func (s *service) CreateTeam(ctx context.Context, actorID string, req *model.CreateTeamRequest) (*model.TeamResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	team := &model.Team{ID: uuid.NewString(), Name: req.Name, Description: req.Description}
	admin := &model.Member{ID: uuid.NewString(), TeamID: team.ID, UserID: actorID, Role: model.RoleAdmin}

	var members []model.MemberResponse
	err := s.inTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		if err := ensureTeamless(ctx, repo, actorID, team.ID); err != nil {
			return err
		}
		if err := repo.CreateTeam(ctx, team); err != nil {
			return err
		}
		if err := repo.AddMember(ctx, admin); err != nil {
			return err
		}

		var listErr error
		members, listErr = repo.ListMembers(ctx, team.ID)
		return listErr
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyInTeam) {
			s.logger.Debugw("CreateTeam rejected, actor already in a team", "user_id", actorID)
		} else {
			s.logger.Errorw("CreateTeam failed", "user_id", actorID, "error", err)
		}
		return nil, err
	}

	s.logger.Infow("team created", "team_id", team.ID, "user_id", actorID)
	return &model.TeamResponse{Team: *team, Members: members}, nil
}

// ensureTeamless fails when userID already has a membership. It runs in the
// transaction that inserts the membership; postgres also holds a unique index on
// team_members.user_id for inserts that race past it.
func ensureTeamless(ctx context.Context, repo repository.Repository, userID, teamID string) error {
	memberships, err := repo.MembershipsForUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, m := range memberships {
		if m.TeamID == teamID {
			return model.ErrAlreadyMember
		}
	}
	if len(memberships) > 0 {
		return model.ErrAlreadyInTeam
	}
	return nil
}

// ListTeams returns the teams the actor belongs to.
func (s *service) ListTeams(ctx context.Context, actorID string) ([]model.TeamSummary, error) {
	var teams []model.TeamSummary
	err := s.call(ctx, func(ctx context.Context) error {
		var err error
		teams, err = s.repo.ListTeamsForUser(ctx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// GetTeam returns a team with members. Only members can see it.
func (s *service) GetTeam(ctx context.Context, actorID, teamID string) (*model.TeamResponse, error) {
	if !validID(teamID) {
		return nil, model.ErrTeamNotFound
	}

	var resp *model.TeamResponse
	err := s.call(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetMember(ctx, teamID, actorID); err != nil {
			if errors.Is(err, model.ErrMemberNotFound) {
				return model.ErrTeamNotFound
			}
			return err
		}

		team, err := s.repo.GetTeam(ctx, teamID)
		if err != nil {
			return err
		}

		members, err := s.repo.ListMembers(ctx, teamID)
		if err != nil {
			return err
		}

		resp = &model.TeamResponse{Team: *team, Members: members}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// UpdateTeam changes team details. Admin only.
func (s *service) UpdateTeam(ctx context.Context, actorID, teamID string, req *model.UpdateTeamRequest) (*model.Team, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !validID(teamID) {
		return nil, model.ErrTeamNotFound
	}

	var team *model.Team
	err := s.call(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, actorID, teamID); err != nil {
			return err
		}
		var err error
		team, err = s.repo.UpdateTeam(ctx, teamID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("team updated", "team_id", teamID, "user_id", actorID)
	return team, nil
}

// DeleteTeam deletes a team that owns no properties. Admin only.
func (s *service) DeleteTeam(ctx context.Context, actorID, teamID string) error {
	if !validID(teamID) {
		return model.ErrTeamNotFound
	}
	if err := s.call(ctx, func(ctx context.Context) error {
		return s.requireAdmin(ctx, actorID, teamID)
	}); err != nil {
		return err
	}

	err := s.inTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		count, err := repo.CountProperties(ctx, teamID)
		if err != nil {
			return err
		}
		if count > 0 {
			return model.ErrTeamHasProperties
		}
		return repo.DeleteTeam(ctx, teamID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("team deleted", "team_id", teamID, "user_id", actorID)
	return nil
}

// InviteMember adds an existing user to the team as a member. Admin only.
func (s *service) InviteMember(ctx context.Context, actorID, teamID string, req *model.InviteRequest) (*model.MemberResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !validID(teamID) {
		return nil, model.ErrTeamNotFound
	}

	var invitee *identityModel.Profile
	err := s.call(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, actorID, teamID); err != nil {
			return err
		}
		var err error
		invitee, err = s.directory.GetByEmail(ctx, req.Email)
		if errors.Is(err, identityModel.ErrUserNotFound) {
			return model.ErrUserNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	member := &model.Member{ID: uuid.NewString(), TeamID: teamID, UserID: invitee.ID, Role: model.RoleMember}
	err = s.inTx(ctx, func(ctx context.Context, repo repository.Repository) error {
		if err := ensureTeamless(ctx, repo, invitee.ID, teamID); err != nil {
			return err
		}
		return repo.AddMember(ctx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Infow("member invited", "team_id", teamID, "user_id", invitee.ID, "invited_by", actorID)
	s.notifyInvite(ctx, actorID, teamID, invitee.Email)

	return &model.MemberResponse{
		UserID:    invitee.ID,
		Email:     invitee.Email,
		FirstName: invitee.FirstName,
		LastName:  invitee.LastName,
		Role:      member.Role,
		JoinedAt:  member.CreatedAt,
	}, nil
}

// notifyInvite is best-effort: the membership is already committed.
func (s *service) notifyInvite(ctx context.Context, actorID, teamID, email string) {
	invite := notify.Invite{To: email}
	err := s.call(ctx, func(ctx context.Context) error {
		if team, err := s.repo.GetTeam(ctx, teamID); err == nil {
			invite.TeamName = team.Name
		}
		if inviter, err := s.directory.GetByID(ctx, actorID); err == nil {
			invite.InviterName = inviter.DisplayName()
		}
		return s.notifier.NotifyInvite(ctx, invite)
	})
	if err != nil {
		s.logger.Warnw("invite notification failed", "team_id", teamID, "error", err)
	}
}

// UpdateMemberRole changes a member's role. Admin only.
func (s *service) UpdateMemberRole(ctx context.Context, actorID, teamID, userID string, role model.Role) error {
	if !role.Valid() {
		return model.ErrInvalidRole
	}
	if !validID(teamID) {
		return model.ErrTeamNotFound
	}

	err := s.call(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, actorID, teamID); err != nil {
			return err
		}
		if !validID(userID) {
			return model.ErrMemberNotFound
		}
		return s.repo.UpdateMemberRole(ctx, teamID, userID, role)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("member role updated", "team_id", teamID, "user_id", userID, "role", role, "updated_by", actorID)
	return nil
}

// RemoveMember removes a member from the team. Admin only.
func (s *service) RemoveMember(ctx context.Context, actorID, teamID, userID string) error {
	if !validID(teamID) {
		return model.ErrTeamNotFound
	}

	err := s.call(ctx, func(ctx context.Context) error {
		if err := s.requireAdmin(ctx, actorID, teamID); err != nil {
			return err
		}
		if !validID(userID) {
			return model.ErrMemberNotFound
		}
		return s.repo.RemoveMember(ctx, teamID, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Infow("member removed", "team_id", teamID, "user_id", userID, "removed_by", actorID)
	return nil
}

// requireAdmin fails with ErrTeamNotFound for an unknown team and ErrNotTeamAdmin
// when the actor is not an admin of it.
func (s *service) requireAdmin(ctx context.Context, actorID, teamID string) error {
	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return err
	}

	member, err := s.repo.GetMember(ctx, teamID, actorID)
	if err != nil {
		if errors.Is(err, model.ErrMemberNotFound) {
			return model.ErrNotTeamAdmin
		}
		return err
	}
	if member.Role != model.RoleAdmin {
		return model.ErrNotTeamAdmin
	}
	return nil
}
