package compound

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type recordingJob struct {
	mu       sync.Mutex
	attempts []time.Time
	skips    int
	block    chan struct{}
}

func (j *recordingJob) Attempt(ctx context.Context) Outcome {
	j.mu.Lock()
	j.attempts = append(j.attempts, time.Now())
	j.mu.Unlock()
	if j.block != nil {
		<-j.block
	}
	return Outcome{Status: StatusSuccess}
}

func (j *recordingJob) Skip(reason string) Outcome {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.skips++
	return Outcome{Status: StatusSkipped, Reason: reason}
}

func (j *recordingJob) counts() (int, int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.attempts), j.skips
}

func runScheduler(s *Scheduler, ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	return done
}

func TestSchedulerFiresImmediatelyThenEveryInterval(t *testing.T) {
	job := &recordingJob{}
	s := &Scheduler{Job: job, Interval: 100 * time.Millisecond, Log: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	done := runScheduler(s, ctx)

	require.Eventually(t, func() bool { n, _ := job.counts(); return n >= 1 }, 50*time.Millisecond, time.Millisecond)
	require.Eventually(t, func() bool { n, _ := job.counts(); return n >= 4 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	<-done

	job.mu.Lock()
	defer job.mu.Unlock()
	require.Less(t, job.attempts[0].Sub(start), 50*time.Millisecond)
	for i := 1; i < 4; i++ {
		offset := job.attempts[i].Sub(start)
		want := time.Duration(i) * 100 * time.Millisecond
		require.InDelta(t, want.Seconds(), offset.Seconds(), 0.06, "tick %d at %s", i, offset)
	}
}

func TestSchedulerStopsWithAttemptInFlight(t *testing.T) {
	job := &recordingJob{block: make(chan struct{})}
	defer close(job.block)
	s := &Scheduler{Job: job, Interval: time.Hour, Log: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	done := runScheduler(s, ctx)

	require.Eventually(t, func() bool { n, _ := job.counts(); return n == 1 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("Run did not return while an attempt was blocked")
	}
}

func TestSchedulerOverlapsByDefault(t *testing.T) {
	job := &recordingJob{block: make(chan struct{})}
	defer close(job.block)
	s := &Scheduler{Job: job, Interval: 20 * time.Millisecond, Log: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	done := runScheduler(s, ctx)

	require.Eventually(t, func() bool { n, _ := job.counts(); return n >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
	_, skips := job.counts()
	require.Zero(t, skips)
}

func TestSchedulerSkipIfBusy(t *testing.T) {
	job := &recordingJob{block: make(chan struct{})}
	s := &Scheduler{Job: job, Interval: 20 * time.Millisecond, SkipIfBusy: true, Log: zerolog.Nop()}
	ctx, cancel := context.WithCancel(context.Background())
	done := runScheduler(s, ctx)

	require.Eventually(t, func() bool { _, skips := job.counts(); return skips >= 2 }, time.Second, time.Millisecond)
	n, _ := job.counts()
	require.Equal(t, 1, n)

	close(job.block)
	require.Eventually(t, func() bool { n, _ := job.counts(); return n >= 2 }, time.Second, time.Millisecond)
	cancel()
	<-done
}
