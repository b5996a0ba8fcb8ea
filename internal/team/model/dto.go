// Package model provides domain models and DTOs for the team module.
package model

import "time"

// CreateTeamRequest is the body of POST /teams.
type CreateTeamRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// UpdateTeamRequest is the body of PATCH /teams/:id. Nil fields are left unchanged.
type UpdateTeamRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// InviteRequest is the body of POST /teams/:id/members.
type InviteRequest struct {
	Email string `json:"email" validate:"required,mailbox"`
}

// UpdateRoleRequest is the body of PATCH /teams/:id/members/:user_id.
type UpdateRoleRequest struct {
	Role Role `json:"role"`
}

// MemberResponse is a team member joined with profile details.
type MemberResponse struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	Role      Role      `json:"role"`
	JoinedAt  time.Time `json:"joined_at"`
}

// TeamResponse is a team with its members.
type TeamResponse struct {
	Team
	Members []MemberResponse `json:"members"`
}

// TeamSummary is a team as seen by one of its members.
type TeamSummary struct {
	Team
	Role Role `json:"role"`
}
