package model

import "errors"

var (
	// ErrTeamNotFound indicates that the team does not exist or is not visible to the caller.
	ErrTeamNotFound = errors.New("team not found")
	// ErrNotTeamAdmin indicates that the caller is not an admin of the team.
	ErrNotTeamAdmin = errors.New("only team admins can perform this action")
	// ErrAlreadyInTeam indicates that the user already belongs to a team.
	ErrAlreadyInTeam = errors.New("user already belongs to a team")
	// ErrAlreadyMember indicates that the user is already a member of this team.
	ErrAlreadyMember = errors.New("user is already a member of this team")
	// ErrUserNotFound indicates that the invited email has no account.
	ErrUserNotFound = errors.New("user not found")
	// ErrMemberNotFound indicates that the user is not a member of the team.
	ErrMemberNotFound = errors.New("team member not found")
	// ErrInvalidRole indicates a role outside admin|member.
	ErrInvalidRole = errors.New("invalid role")
	// ErrTeamHasProperties indicates that the team still owns properties.
	ErrTeamHasProperties = errors.New("team still owns properties")
)
