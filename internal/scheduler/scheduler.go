// Package scheduler runs periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/fkhayef/fellowship/internal/logging"
)

// DeclinedPurger removes declined friend requests older than retention
type DeclinedPurger interface {
	PurgeDeclined(ctx context.Context, retention time.Duration) (int64, error)
}

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron      *cron.Cron
	purger    DeclinedPurger
	retention time.Duration
	log       logging.Logger
}

// New creates a scheduler. A zero retention leaves declined requests in place.
func New(purger DeclinedPurger, retention time.Duration, log logging.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		purger:    purger,
		retention: retention,
		log:       log,
	}
}

// Start registers the jobs on schedule and starts the scheduler
func (s *Scheduler) Start(schedule string) error {
	if s.retention > 0 {
		if _, err := s.cron.AddFunc(schedule, s.purgeDeclined); err != nil {
			return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
		}
	}

	s.cron.Start()
	s.log.Info(context.Background(), "scheduler started", "jobs", len(s.cron.Entries()), "schedule", schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info(context.Background(), "scheduler stopped")
}

func (s *Scheduler) purgeDeclined() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := s.purger.PurgeDeclined(ctx, s.retention)
	if err != nil {
		s.log.Error(ctx, "failed to purge declined friend requests", "error", err)
		return
	}
	s.log.Info(ctx, "purged declined friend requests", "count", n, "retention", s.retention.String())
}
