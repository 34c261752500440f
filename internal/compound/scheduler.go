package compound

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Job is what the scheduler fires each tick.
type Job interface {
	Attempt(ctx context.Context) Outcome
	Skip(reason string) Outcome
}

// Scheduler fires Job at start and then every Interval until ctx ends.
//
// Each tick runs on its own goroutine, so a slow attempt does not delay the
// next tick and attempts may overlap. With SkipIfBusy a tick that finds the
// previous attempt still running is recorded as skipped instead.
type Scheduler struct {
	Job        Job
	Interval   time.Duration
	SkipIfBusy bool
	Log        zerolog.Logger

	busy atomic.Bool
}

// Run blocks until ctx is cancelled. In-flight attempts are not awaited.
func (s *Scheduler) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.fire(ctx)
	for {
		select {
		case <-ctx.Done():
			s.Log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.fire(ctx)
		}
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	if !s.SkipIfBusy {
		go s.Job.Attempt(ctx)
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		s.Job.Skip("previous attempt still running")
		return
	}
	go func() {
		defer s.busy.Store(false)
		s.Job.Attempt(ctx)
	}()
}
