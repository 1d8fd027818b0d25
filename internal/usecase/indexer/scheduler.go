package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runner is what the scheduler triggers.
type runner interface {
	Run(ctx context.Context) (Report, error)
}

// Scheduler triggers reindex runs on a cron schedule. Runs never overlap:
// a tick that fires while a run is in progress is skipped.
type Scheduler struct {
	cron    *cron.Cron
	run     runner
	timeout time.Duration
	logger  *zap.Logger
}

// NewScheduler parses spec (standard cron or @every) and registers the job.
// timeout bounds a single run; zero means unbounded.
func NewScheduler(run runner, spec string, timeout time.Duration, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{run: run, timeout: timeout, logger: logger}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cron.DiscardLogger),
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("schedule reindex %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the schedule and returns a context done when a running job finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) tick() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.run.Run(ctx); err != nil {
		s.logger.Error("Scheduled reindex failed", zap.Error(err))
	}
}
