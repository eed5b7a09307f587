package forecast

import (
	"context"
	"time"

	"salecast/internal/log"
)

const (
	// RetryBackoff is how long the loop waits after a failed cycle before
	// trying again. Fixed, no jitter; with a single instance per store
	// there is no herd to spread out.
	RetryBackoff = 5 * time.Minute

	// CycleTimeout bounds one generation cycle so a hung store call cannot
	// starve the loop's cadence.
	CycleTimeout = 5 * time.Minute
)

// CycleRunner is one attempt at generating forecasts.
type CycleRunner interface {
	Run(ctx context.Context) (int, error)
}

// Scheduler drives the generator forever: run immediately on start, sleep
// the configured interval after a success, RetryBackoff after a failure.
// Failures are contained at the loop boundary and never escape; the loop
// only stops when its context is cancelled at the sleep point.
type Scheduler struct {
	runner   CycleRunner
	interval time.Duration
	backoff  time.Duration
	logger   *log.Logger

	// sleep is injectable so tests can drive the loop with a fake clock.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewScheduler(runner CycleRunner, interval time.Duration, logger *log.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		backoff:  RetryBackoff,
		logger:   logger.WithComponent(log.ComponentScheduler),
		sleep:    sleepContext,
	}
}

// Run blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Forecast scheduler started", "interval", s.interval, "retry_backoff", s.backoff)

	for {
		wait := s.interval

		cycleCtx, cancel := context.WithTimeout(ctx, CycleTimeout)
		count, err := s.runner.Run(cycleCtx)
		cancel()

		if err != nil {
			s.logger.Error("Forecast cycle failed, retrying after backoff",
				"error", err, "backoff", s.backoff)
			wait = s.backoff
		} else {
			s.logger.Info("Forecast cycle complete, sleeping",
				"forecasts_written", count, "next_run_in", wait)
		}

		if err := s.sleep(ctx, wait); err != nil {
			s.logger.Info("Forecast scheduler stopped", "reason", err)
			return
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
