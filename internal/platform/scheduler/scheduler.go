// Package scheduler runs background jobs on cron schedules, away from request handling.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one scheduled unit of work. Its error is logged, never propagated.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner. Jobs of the same name never overlap.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler evaluating specs in loc. Each run is bounded by timeout when it is positive.
func New(loc *time.Location, logger *slog.Logger, timeout time.Duration) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		logger:  logger,
		timeout: timeout,
	}
}

// Add registers job under a standard five field spec such as "0 8 * * *".
func (s *Scheduler) Add(spec, name string, job Job) error {
	wrapped := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.run(name, job)
	}))
	if _, err := s.cron.AddJob(spec, wrapped); err != nil {
		return fmt.Errorf("invalid schedule %q for job %s: %w", spec, name, err)
	}
	s.logger.Info("Job scheduled", slog.String("job", name), slog.String("spec", spec))
	return nil
}

func (s *Scheduler) run(name string, job Job) {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	logger := s.logger.With(slog.String("job", name))
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", slog.Any("panic", r))
		}
	}()

	if err := job(ctx); err != nil {
		logger.Error("Job finished with errors", slog.String("error", err.Error()), slog.Duration("took", time.Since(started)))
		return
	}
	logger.Info("Job finished", slog.Duration("took", time.Since(started)))
}

// RunNow executes job once on the calling goroutine with the same logging as a scheduled run.
func (s *Scheduler) RunNow(name string, job Job) {
	s.run(name, job)
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running ones until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
