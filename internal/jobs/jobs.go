package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is the body of a periodic job
type Task func(ctx context.Context) error

// Job runs Task every Interval
type Job struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
	Task       Task
}

// Scheduler runs a set of periodic jobs, one goroutine each. A run that
// outlasts its interval delays the next one, so runs of the same job never
// overlap within a process.
type Scheduler struct {
	jobs []Job
}

// NewScheduler creates a scheduler for jobs
func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs}
}

// Run starts every job and blocks until ctx is cancelled and all runs have
// returned
func (s *Scheduler) Run(ctx context.Context) error {
	for _, j := range s.jobs {
		if j.Interval <= 0 {
			return fmt.Errorf("job %s: interval must be positive", j.Name)
		}
	}

	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.loop(ctx, j)
		}()
	}

	log.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")
	wg.Wait()
	log.Info().Msg("Scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context, j Job) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	if j.RunOnStart {
		RunOnce(ctx, j)
	}

	for {
		select {
		case <-ticker.C:
			RunOnce(ctx, j)
		case <-ctx.Done():
			return
		}
	}
}

// RunOnce executes one run of j. Errors and panics are logged and never
// propagate, so a failing run does not stop the schedule.
func RunOnce(ctx context.Context, j Job) {
	firedAt := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("job", j.Name).Msg("Job panicked")
		}
	}()

	if err := j.Task(ctx); err != nil {
		log.Error().Err(err).Str("job", j.Name).Time("fired_at", firedAt).Msg("Job failed")
		return
	}
	log.Debug().
		Str("job", j.Name).
		Time("fired_at", firedAt).
		Dur("took", time.Since(firedAt)).
		Msg("Job finished")
}
