package services

import (
	"context"
	"fmt"
	"time"

	"date-journal-backend/internal/models"
	"date-journal-backend/internal/notify"
)

// DateLister lists every date
type DateLister interface {
	List(ctx context.Context) ([]*models.DateEvent, error)
}

// MilestoneLister lists achieved milestones
type MilestoneLister interface {
	List(ctx context.Context) ([]*models.Milestone, error)
}

// StatsService aggregates the journal
type StatsService struct {
	dates       DateLister
	milestones  MilestoneLister
	anniversary time.Time
	now         func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(dates DateLister, milestones MilestoneLister, anniversary time.Time) *StatsService {
	return &StatsService{dates: dates, milestones: milestones, anniversary: anniversary, now: time.Now}
}

// Stats returns the aggregate counters of all dates
func (s *StatsService) Stats(ctx context.Context) (*notify.Metrics, error) {
	dates, err := s.dates.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	m := notify.ComputeMetrics(dates, s.anniversary, s.now())
	return &m, nil
}

// Milestones returns achieved milestones, newest first
func (s *StatsService) Milestones(ctx context.Context) ([]*models.Milestone, error) {
	return s.milestones.List(ctx)
}
