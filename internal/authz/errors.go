package authz

import "errors"

var (
	// ErrNoTeamMembership indicates that the actor belongs to no team.
	ErrNoTeamMembership = errors.New("you must join or create a team first")
	// ErrAmbiguousMembership indicates that the actor belongs to more than one team.
	ErrAmbiguousMembership = errors.New("user belongs to more than one team")
	// ErrPropertyNotFound indicates that the property does not exist.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrCrossTeamAccess indicates that the property belongs to another team.
	ErrCrossTeamAccess = errors.New("you don't have permission to modify properties for this team")
)
