package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"bonus-points-bot/internal/points"
)

// DashboardRefresher is the bulk refresh entry point the scheduler drives
// after each daily reset.
type DashboardRefresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// Scheduler runs the daily reset at each reset instant: clear the new
// activity day's completion flags, prune old rows, then refresh every
// tracked dashboard.
type Scheduler struct {
	activities    *ActivityService
	dashboards    DashboardRefresher
	retentionDays int
}

// NewScheduler creates a new Scheduler instance.
func NewScheduler(activities *ActivityService, dashboards DashboardRefresher, retentionDays int) *Scheduler {
	return &Scheduler{
		activities:    activities,
		dashboards:    dashboards,
		retentionDays: retentionDays,
	}
}

// Start runs the scheduler loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	for {
		next := points.NextReset(time.Now())
		log.Info().Time("next_reset", next).Msg("Daily reset scheduled")

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes one reset pass. Failures are logged and do not stop the
// remaining steps; the next tick (or the next user command) self-heals.
func (s *Scheduler) RunOnce(ctx context.Context) {
	day := points.CurrentActivityDay()

	if _, err := s.activities.ResetDailyCompletions(ctx, day); err != nil {
		log.Error().Err(err).Str("activity_day", day).Msg("Daily completion reset failed")
	}

	if _, err := s.activities.PruneOlderThan(ctx, s.retentionDays); err != nil {
		log.Error().Err(err).Msg("Completion pruning failed")
	}

	if _, err := s.dashboards.RefreshAll(ctx); err != nil {
		log.Error().Err(err).Msg("Post-reset dashboard refresh failed")
	}
}
