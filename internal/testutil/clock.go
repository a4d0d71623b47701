package testutil

import (
	"sync"
	"time"
)

// Epoch is the time a FakeClock starts at.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FakeClock is a manual clock for tests.
//
// Time only moves when After or Advance is called. After advances the clock
// by the requested duration and returns an already-fired channel, so a retry
// region that waits N times observes exactly N intervals of elapsed time
// without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewFakeClock creates a fake clock at Epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: Epoch}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the clock by d and returns a channel holding the new time.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
	c.waits = append(c.waits, d)

	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// Advance moves the clock forward by d without recording a wait.
// Step bodies use it to simulate slow work.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Waits returns the durations passed to After, in call order.
func (c *FakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.waits))
	copy(out, c.waits)
	return out
}

// Elapsed returns how far the clock has moved since Epoch.
func (c *FakeClock) Elapsed() time.Duration {
	return c.Now().Sub(Epoch)
}

// Reset moves the clock back to Epoch and forgets recorded waits.
func (c *FakeClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = Epoch
	c.waits = nil
}
