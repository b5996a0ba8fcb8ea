package model

import "time"

// Role is a member's permission level within a team.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Team is a tenant that owns properties.
type Team struct {
	ID          string    `gorm:"primaryKey;column:id"             json:"id"`
	Name        string    `gorm:"column:name;not null"             json:"name"`
	Description *string   `gorm:"column:description"               json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// Member links a user to a team with a role. A user appears at most once per team.
type Member struct {
	ID        string    `gorm:"primaryKey;column:id"                                json:"id"`
	TeamID    string    `gorm:"column:team_id;not null;uniqueIndex:idx_team_user"   json:"team_id"`
	UserID    string    `gorm:"column:user_id;not null;uniqueIndex:idx_team_user;index" json:"user_id"`
	Role      Role      `gorm:"column:role;not null"                                json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"                    json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"                    json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Member) TableName() string {
	return "team_members"
}
