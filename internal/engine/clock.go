package engine

import (
	"context"
	"time"
)

// Clock is the time source for retry regions.
//
// SystemClock is used in production; tests inject testutil.FakeClock so that
// elapsed time only moves when the engine waits.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock reads the wall clock.
//
// Thread-safety: SystemClock is stateless and safe for concurrent use.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// After waits for the duration to elapse and then sends the current time.
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Waiter suspends a run between two attempts of a retry region.
//
// Implementations must return promptly with ctx.Err() when ctx is done.
// A non-nil error ends the retry region with its last failure.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerWaiter waits on a Clock timer.
type TimerWaiter struct {
	Clock Clock
}

// Wait blocks the calling goroutine until d has elapsed on the clock or ctx
// is done.
func (w TimerWaiter) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.Clock.After(d):
		return nil
	}
}
