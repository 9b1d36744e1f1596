package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

type stubAnalyticsRepo struct {
	lastPeriod string
	lastLimit  int
	byStatus   []ports.StatusCount
	noShow     ports.NoShowStats
}

func (r *stubAnalyticsRepo) CountByPeriod(_ context.Context, period string, limit int) ([]ports.PeriodCount, error) {
	r.lastPeriod = period
	r.lastLimit = limit
	return []ports.PeriodCount{{Period: "2026-W35", Count: 4}}, nil
}

func (r *stubAnalyticsRepo) CountByStatus(_ context.Context) ([]ports.StatusCount, error) {
	return r.byStatus, nil
}

func (r *stubAnalyticsRepo) NoShowStats(_ context.Context, _, _ time.Time) (*ports.NoShowStats, error) {
	stats := r.noShow
	return &stats, nil
}

func TestAnalytics_AppointmentCounts_Defaults(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewAnalyticsService(repo, discardLogger)

	if _, err := svc.AppointmentCounts(context.Background(), "", 0); err != nil {
		t.Fatal(err)
	}
	if repo.lastPeriod != "week" {
		t.Errorf("expected default period week, got %s", repo.lastPeriod)
	}
	if repo.lastLimit != defaultPeriodLimit {
		t.Errorf("expected default limit %d, got %d", defaultPeriodLimit, repo.lastLimit)
	}
}

func TestAnalytics_AppointmentCounts_UnknownPeriod(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{}, discardLogger)

	_, err := svc.AppointmentCounts(context.Background(), "year", 5)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAnalytics_AppointmentsByStatus_Percentages(t *testing.T) {
	repo := &stubAnalyticsRepo{byStatus: []ports.StatusCount{
		{Status: "completed", Count: 3},
		{Status: "no-show", Count: 1},
	}}
	svc := NewAnalyticsService(repo, discardLogger)

	breakdown, err := svc.AppointmentsByStatus(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if breakdown.Total != 4 {
		t.Errorf("total: expected 4, got %d", breakdown.Total)
	}
	if breakdown.Breakdown[0].Percentage != 75 {
		t.Errorf("completed: expected 75%%, got %v", breakdown.Breakdown[0].Percentage)
	}
	if breakdown.Breakdown[1].Percentage != 25 {
		t.Errorf("no-show: expected 25%%, got %v", breakdown.Breakdown[1].Percentage)
	}
}

func TestAnalytics_NoShowRate(t *testing.T) {
	repo := &stubAnalyticsRepo{noShow: ports.NoShowStats{Total: 3, NoShows: 1}}
	svc := NewAnalyticsService(repo, discardLogger)

	rate, err := svc.NoShowRate(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if rate.Rate != 33.33 {
		t.Errorf("expected 33.33, got %v", rate.Rate)
	}
}

func TestAnalytics_NoShowRate_EmptyDataset(t *testing.T) {
	svc := NewAnalyticsService(&stubAnalyticsRepo{}, discardLogger)

	rate, err := svc.NoShowRate(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if rate.Rate != 0 || rate.Total != 0 {
		t.Errorf("expected zero rate on empty dataset, got %+v", rate)
	}
}
