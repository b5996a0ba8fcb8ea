// Package model provides domain models and DTOs for the identity module.
package model

import "time"

// Profile is a registered user. The id is the actor id used across the system.
type Profile struct {
	ID           string    `gorm:"primaryKey;column:id"                  json:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"column:password_hash;not null"         json:"-"`
	FirstName    *string   `gorm:"column:first_name"                     json:"first_name,omitempty"`
	LastName     *string   `gorm:"column:last_name"                      json:"last_name,omitempty"`
	CompanyName  *string   `gorm:"column:company_name"                   json:"company_name,omitempty"`
	PhoneNumber  *string   `gorm:"column:phone_number"                   json:"phone_number,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"      json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"      json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Profile) TableName() string {
	return "profiles"
}

// DisplayName returns "First Last" when either part is set, otherwise the email.
func (p *Profile) DisplayName() string {
	var name string
	if p.FirstName != nil {
		name = *p.FirstName
	}
	if p.LastName != nil && *p.LastName != "" {
		if name != "" {
			name += " "
		}
		name += *p.LastName
	}
	if name == "" {
		return p.Email
	}
	return name
}
