// Package model provides domain models and DTOs for the inquiry module.
package model

import (
	"fmt"
	"time"
)

// Status is the follow-up state of an inquiry.
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusScheduled Status = "Scheduled"
	StatusClosed    Status = "Closed"
	StatusLost      Status = "Lost"
)

// Statuses lists every inquiry status.
var Statuses = []Status{StatusNew, StatusContacted, StatusScheduled, StatusClosed, StatusLost}

// Valid reports whether s is a known status. Matching is case-sensitive.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseStatus converts raw to a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidInquiryStatus, raw)
	}
	return s, nil
}

// Inquiry is a prospect's contact request.
type Inquiry struct {
	ID            string    `gorm:"primaryKey;column:id"                json:"id"`
	Name          string    `gorm:"column:name;not null"                json:"name"`
	Email         string    `gorm:"column:email;not null"               json:"email"`
	Phone         *string   `gorm:"column:phone"                        json:"phone,omitempty"`
	PropertyTitle *string   `gorm:"column:property_title"               json:"property_title,omitempty"`
	Message       *string   `gorm:"column:message"                      json:"message,omitempty"`
	Status        Status    `gorm:"column:status;not null;default:New"  json:"status"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"    json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Inquiry) TableName() string {
	return "inquiries"
}

// UpdateStatusRequest is the body of PATCH /inquiries/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListFilter narrows GET /inquiries.
type ListFilter struct {
	Status string `form:"status"`
}
