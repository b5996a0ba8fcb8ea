// Package model provides domain models and DTOs for the property module.
package model

import (
	"fmt"
	"time"
)

// Status is a property's lifecycle stage.
type Status string

const (
	StatusAcquisition Status = "Acquisition"
	StatusPreparation Status = "Preparation"
	StatusMarketing   Status = "Marketing"
	StatusSold        Status = "Sold"
	StatusLost        Status = "Lost"
)

// Statuses lists the lifecycle stages in pipeline order.
var Statuses = []Status{StatusAcquisition, StatusPreparation, StatusMarketing, StatusSold, StatusLost}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether s ends the pipeline.
func (s Status) Terminal() bool {
	return s == StatusSold || s == StatusLost
}

// ParseStatus converts raw into a Status. Unknown values, including the legacy
// Active/Pending vocabulary, fail with ErrInvalidStatus.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}

// ImagePath is the storage path of a property's cover image. A property has at most one.
func ImagePath(propertyID string) string {
	return propertyID + "/0.jpg"
}

// Property is a listing owned by exactly one team.
type Property struct {
	ID          string    `gorm:"primaryKey;column:id"                json:"id"`
	Title       string    `gorm:"column:title;not null"               json:"title"`
	Address     string    `gorm:"column:address;not null"             json:"address"`
	Description *string   `gorm:"column:description"                  json:"description,omitempty"`
	Price       float64   `gorm:"column:price;not null"               json:"price"`
	Bedrooms    int       `gorm:"column:bedrooms;not null"            json:"bedrooms"`
	Bathrooms   float64   `gorm:"column:bathrooms;not null"           json:"bathrooms"`
	Sqft        int       `gorm:"column:sqft;not null"                json:"sqft"`
	Status      Status    `gorm:"column:status;not null;index"        json:"status"`
	ImageURL    string    `gorm:"column:image_url"                    json:"image_url"`
	CreatedBy   string    `gorm:"column:created_by;not null"          json:"created_by"`
	TeamID      string    `gorm:"column:team_id;not null;index"       json:"team_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"    json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"    json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Property) TableName() string {
	return "properties"
}
