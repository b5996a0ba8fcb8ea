// Package model provides data transfer objects for the analytics module.
package model

import (
	"errors"
	"time"

	propertyModel "github.com/festy23/realty_ops/internal/property/model"
)

// ErrInvalidRange indicates a metrics window whose start is after its end.
var ErrInvalidRange = errors.New("from must not be after to")

// StatusCount is the number of team properties in one lifecycle stage.
type StatusCount struct {
	Status propertyModel.Status `json:"status"`
	Count  int                  `json:"count"`
}

// PriceSummary aggregates listing prices.
type PriceSummary struct {
	Total        int     `json:"total"`
	TotalValue   float64 `json:"total_value"`
	AveragePrice float64 `json:"average_price"`
}

// PropertyBreakdown is the team's pipeline at a glance. ByStatus lists every
// lifecycle stage in pipeline order, including empty ones.
type PropertyBreakdown struct {
	ByStatus []StatusCount `json:"by_status"`
	PriceSummary
}

// Metric is one stored aggregate row for a team and period.
type Metric struct {
	ID        string    `gorm:"primaryKey;column:id"                json:"id"`
	TeamID    string    `gorm:"column:team_id;not null"             json:"team_id"`
	Period    time.Time `gorm:"column:period;type:date;not null"    json:"period"`
	Views     int       `gorm:"column:views;not null"               json:"views"`
	Inquiries int       `gorm:"column:inquiries;not null"           json:"inquiries"`
	Listings  int       `gorm:"column:listings;not null"            json:"listings"`
	Sold      int       `gorm:"column:sold;not null"                json:"sold"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"    json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Metric) TableName() string {
	return "property_metrics"
}

// MetricsQuery is the query string of GET /analytics/metrics. Dates use YYYY-MM-DD.
type MetricsQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// MetricsResponse wraps stored metric rows.
type MetricsResponse struct {
	Metrics []Metric `json:"metrics"`
}
