// Package repository provides data access layer for the team module.
package repository

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/team/model"
)

// Repository defines the interface for team and membership data access operations.
type Repository interface {
	// CreateTeam inserts a new team.
	CreateTeam(ctx context.Context, team *model.Team) error

	// GetTeam finds a team by id.
	GetTeam(ctx context.Context, teamID string) (*model.Team, error)

	// UpdateTeam applies non-nil fields and returns the updated team.
	UpdateTeam(ctx context.Context, teamID string, req *model.UpdateTeamRequest) (*model.Team, error)

	// DeleteTeam removes a team and, by cascade, its memberships.
	DeleteTeam(ctx context.Context, teamID string) error

	// ListTeamsForUser returns the teams userID belongs to with the user's role.
	ListTeamsForUser(ctx context.Context, userID string) ([]model.TeamSummary, error)

	// MembershipsForUser returns every membership row of userID.
	MembershipsForUser(ctx context.Context, userID string) ([]model.Member, error)

	// AddMember inserts a membership.
	AddMember(ctx context.Context, member *model.Member) error

	// GetMember finds the membership of userID in teamID.
	GetMember(ctx context.Context, teamID, userID string) (*model.Member, error)

	// ListMembers returns members of a team joined with their profiles.
	ListMembers(ctx context.Context, teamID string) ([]model.MemberResponse, error)

	// UpdateMemberRole changes the role of an existing membership.
	UpdateMemberRole(ctx context.Context, teamID, userID string, role model.Role) error

	// RemoveMember deletes a membership.
	RemoveMember(ctx context.Context, teamID, userID string) error

	// CountProperties returns the number of properties owned by teamID.
	CountProperties(ctx context.Context, teamID string) (int64, error)
}

type teamWithRole struct {
	model.Team
	Role model.Role `gorm:"column:role"`
}

type repository struct {
	db     *gorm.DB
	logger *zap.SugaredLogger
}

// New creates a new team repository instance.
func New(db *gorm.DB, logger *zap.SugaredLogger) Repository {
	return &repository{db: db, logger: logger}
}

// CreateTeam inserts a new team.
func (r *repository) CreateTeam(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		r.logger.Errorw("CreateTeam database error", "team_id", team.ID, "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// GetTeam finds a team by id.
func (r *repository) GetTeam(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).Where("id = ?", teamID).First(&team).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTeamNotFound
		}
		r.logger.Errorw("GetTeam database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &team, nil
}

// UpdateTeam applies non-nil fields and returns the updated team.
func (r *repository) UpdateTeam(ctx context.Context, teamID string, req *model.UpdateTeamRequest) (*model.Team, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		result := r.db.WithContext(ctx).Model(&model.Team{ID: teamID}).Updates(updates)
		if result.Error != nil {
			r.logger.Errorw("UpdateTeam database error", "team_id", teamID, "error", result.Error)
			return nil, apperror.FromDB(result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, model.ErrTeamNotFound
		}
	}

	return r.GetTeam(ctx, teamID)
}

// DeleteTeam removes a team and its memberships.
func (r *repository) DeleteTeam(ctx context.Context, teamID string) error {
	db := r.db.WithContext(ctx)

	// Explicit member delete keeps sqlite (no FK enforcement by default) in line with the postgres cascade.
	if err := db.Where("team_id = ?", teamID).Delete(&model.Member{}).Error; err != nil {
		r.logger.Errorw("DeleteTeam members database error", "team_id", teamID, "error", err)
		return apperror.FromDB(err)
	}

	result := db.Where("id = ?", teamID).Delete(&model.Team{})
	if result.Error != nil {
		r.logger.Errorw("DeleteTeam database error", "team_id", teamID, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrTeamNotFound
	}
	return nil
}

// ListTeamsForUser returns the teams userID belongs to with the user's role.
func (r *repository) ListTeamsForUser(ctx context.Context, userID string) ([]model.TeamSummary, error) {
	var rows []teamWithRole

	err := r.db.WithContext(ctx).
		Table("teams").
		Select("teams.*, team_members.role AS role").
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		r.logger.Errorw("ListTeamsForUser database error", "user_id", userID, "error", err)
		return nil, apperror.FromDB(err)
	}

	teams := make([]model.TeamSummary, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, model.TeamSummary{Team: row.Team, Role: row.Role})
	}
	return teams, nil
}

// MembershipsForUser returns every membership row of userID.
func (r *repository) MembershipsForUser(ctx context.Context, userID string) ([]model.Member, error) {
	var members []model.Member
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&members).Error
	if err != nil {
		r.logger.Errorw("MembershipsForUser database error", "user_id", userID, "error", err)
		return nil, apperror.FromDB(err)
	}
	return members, nil
}

// userUniqueIndex holds one membership per user on postgres.
const userUniqueIndex = "team_members_user_id_key"

// AddMember inserts a membership.
func (r *repository) AddMember(ctx context.Context, member *model.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if err != nil {
		if apperror.IsDuplicate(err) {
			if strings.Contains(err.Error(), userUniqueIndex) {
				return model.ErrAlreadyInTeam
			}
			return model.ErrAlreadyMember
		}
		r.logger.Errorw("AddMember database error", "team_id", member.TeamID, "user_id", member.UserID, "error", err)
		return apperror.FromDB(err)
	}
	return nil
}

// GetMember finds the membership of userID in teamID.
func (r *repository) GetMember(ctx context.Context, teamID, userID string) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrMemberNotFound
		}
		r.logger.Errorw("GetMember database error", "team_id", teamID, "user_id", userID, "error", err)
		return nil, apperror.FromDB(err)
	}
	return &member, nil
}

// ListMembers returns members of a team joined with their profiles.
func (r *repository) ListMembers(ctx context.Context, teamID string) ([]model.MemberResponse, error) {
	var members []model.MemberResponse
	err := r.db.WithContext(ctx).
		Table("team_members").
		Select("team_members.user_id, profiles.email, profiles.first_name, profiles.last_name, " +
			"team_members.role, team_members.created_at AS joined_at").
		Joins("JOIN profiles ON profiles.id = team_members.user_id").
		Where("team_members.team_id = ?", teamID).
		Order("team_members.created_at ASC").
		Scan(&members).Error
	if err != nil {
		r.logger.Errorw("ListMembers database error", "team_id", teamID, "error", err)
		return nil, apperror.FromDB(err)
	}

	if members == nil {
		return []model.MemberResponse{}, nil
	}
	return members, nil
}

// UpdateMemberRole changes the role of an existing membership.
func (r *repository) UpdateMemberRole(ctx context.Context, teamID, userID string, role model.Role) error {
	result := r.db.WithContext(ctx).
		Model(&model.Member{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role)
	if result.Error != nil {
		r.logger.Errorw("UpdateMemberRole database error", "team_id", teamID, "user_id", userID, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}

// RemoveMember deletes a membership.
func (r *repository) RemoveMember(ctx context.Context, teamID, userID string) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.Member{})
	if result.Error != nil {
		r.logger.Errorw("RemoveMember database error", "team_id", teamID, "user_id", userID, "error", result.Error)
		return apperror.FromDB(result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrMemberNotFound
	}
	return nil
}

// CountProperties returns the number of properties owned by teamID.
func (r *repository) CountProperties(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("properties").Where("team_id = ?", teamID).Count(&count).Error
	if err != nil {
		r.logger.Errorw("CountProperties database error", "team_id", teamID, "error", err)
		return 0, apperror.FromDB(err)
	}
	return count, nil
}
