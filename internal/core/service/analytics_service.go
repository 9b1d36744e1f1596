package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

const defaultPeriodLimit = 30

// AnalyticsService formats the reporting aggregations for the admin views.
type AnalyticsService struct {
	repo ports.AnalyticsRepository
	log  zerolog.Logger
}

func NewAnalyticsService(repo ports.AnalyticsRepository, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{repo: repo, log: log}
}

// AppointmentCounts groups appointment volume by calendar bucket.
func (s *AnalyticsService) AppointmentCounts(ctx context.Context, period string, limit int) ([]ports.PeriodCount, error) {
	switch period {
	case "", "week":
		period = "week"
	case "day", "month":
	default:
		return nil, fmt.Errorf("%w: period must be day, week or month", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultPeriodLimit
	}

	return s.repo.CountByPeriod(ctx, period, limit)
}

// AppointmentsByStatus returns the status distribution with percentages.
func (s *AnalyticsService) AppointmentsByStatus(ctx context.Context) (*ports.StatusBreakdown, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	breakdown := make([]ports.StatusShare, 0, len(counts))
	for _, c := range counts {
		share := ports.StatusShare{Status: c.Status, Count: c.Count}
		if total > 0 {
			share.Percentage = roundPct(float64(c.Count) / float64(total) * 100)
		}
		breakdown = append(breakdown, share)
	}

	return &ports.StatusBreakdown{Breakdown: breakdown, Total: total}, nil
}

// NoShowRate returns the no-show percentage over an optional date range.
func (s *AnalyticsService) NoShowRate(ctx context.Context, from, to time.Time) (*ports.NoShowRate, error) {
	stats, err := s.repo.NoShowStats(ctx, from, to)
	if err != nil {
		return nil, err
	}

	rate := &ports.NoShowRate{Total: stats.Total, NoShows: stats.NoShows}
	if stats.Total > 0 {
		rate.Rate = roundPct(float64(stats.NoShows) / float64(stats.Total) * 100)
	}
	return rate, nil
}

// roundPct rounds to two decimals, matching the existing API contract.
func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
