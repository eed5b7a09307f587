package forecast

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedRunner struct {
	results []error
	calls   int
}

func (r *scriptedRunner) Run(context.Context) (int, error) {
	err := r.results[r.calls%len(r.results)]
	r.calls++
	if err != nil {
		return 0, err
	}
	return 1, nil
}

// fakeSleeper records requested sleep durations and stops the loop after a
// fixed number of sleeps, standing in for the wall clock.
type fakeSleeper struct {
	slept     []time.Duration
	maxSleeps int
}

func (f *fakeSleeper) sleep(_ context.Context, d time.Duration) error {
	f.slept = append(f.slept, d)
	if len(f.slept) >= f.maxSleeps {
		return context.Canceled
	}
	return nil
}

func TestSchedulerBackoffAfterFailure(t *testing.T) {
	// First cycle fails, second succeeds: the loop must survive the
	// failure, wait the short backoff, then return to the normal interval.
	runner := &scriptedRunner{results: []error{errors.New("simulated store outage"), nil, nil}}
	sleeper := &fakeSleeper{maxSleeps: 3}

	s := NewScheduler(runner, 24*time.Hour, testLogger())
	s.sleep = sleeper.sleep
	s.Run(context.Background())

	assert.Equal(t, 3, runner.calls)
	require.Len(t, sleeper.slept, 3)
	assert.Equal(t, RetryBackoff, sleeper.slept[0])
	assert.Equal(t, 24*time.Hour, sleeper.slept[1])
	assert.Equal(t, 24*time.Hour, sleeper.slept[2])
}

func TestSchedulerRunsImmediatelyOnStart(t *testing.T) {
	runner := &scriptedRunner{results: []error{nil}}
	sleeper := &fakeSleeper{maxSleeps: 1}

	s := NewScheduler(runner, time.Hour, testLogger())
	s.sleep = sleeper.sleep
	s.Run(context.Background())

	// The first cycle happens before any sleep.
	assert.Equal(t, 1, runner.calls)
	require.Len(t, sleeper.slept, 1)
	assert.Equal(t, time.Hour, sleeper.slept[0])
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	runner := &scriptedRunner{results: []error{nil}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewScheduler(runner, time.Hour, testLogger())

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}
	assert.Equal(t, 1, runner.calls)
}
