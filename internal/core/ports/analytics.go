package ports

import (
	"context"
	"time"
)

// PeriodCount is the number of appointments in one calendar bucket.
type PeriodCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// StatusCount is the number of appointments currently in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// NoShowStats aggregates no-show figures over an optional date range.
type NoShowStats struct {
	Total   int64 `json:"totalAppointments"`
	NoShows int64 `json:"noShows"`
}

// AnalyticsRepository runs the reporting aggregations against the store.
type AnalyticsRepository interface {
	// CountByPeriod groups appointments by calendar bucket. period is one of
	// "day", "week", "month"; limit caps the number of buckets returned.
	CountByPeriod(ctx context.Context, period string, limit int) ([]PeriodCount, error)
	CountByStatus(ctx context.Context) ([]StatusCount, error)
	NoShowStats(ctx context.Context, from, to time.Time) (*NoShowStats, error)
}

// StatusBreakdown is the formatted status distribution returned to clients.
type StatusBreakdown struct {
	Breakdown []StatusShare `json:"breakdown"`
	Total     int64         `json:"total"`
}

// StatusShare is one status with its share of the total.
type StatusShare struct {
	Status     string  `json:"status"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// NoShowRate is the formatted no-show figure returned to clients.
type NoShowRate struct {
	Rate    float64 `json:"noShowRate"`
	Total   int64   `json:"totalAppointments"`
	NoShows int64   `json:"noShows"`
}

// AnalyticsService formats the reporting aggregations.
type AnalyticsService interface {
	AppointmentCounts(ctx context.Context, period string, limit int) ([]PeriodCount, error)
	AppointmentsByStatus(ctx context.Context) (*StatusBreakdown, error)
	NoShowRate(ctx context.Context, from, to time.Time) (*NoShowRate, error)
}
