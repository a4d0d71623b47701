package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/roach88/brine/internal/engine"
	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// DefaultWorkers is the number of concurrent runs when WithWorkers is not given.
const DefaultWorkers = 4

// Job is one scenario to run with its initial session.
type Job struct {
	Scenario step.Scenario
	Session  session.Session
}

// Result is the outcome of one job.
type Result struct {
	ID       string
	Scenario string
	Initial  session.Session
	Report   report.Report
	Started  time.Time
	Duration time.Duration
}

// Pool bounds the number of scenarios executing at once.
//
// Thread-safety: Run and RunAll may be called from many goroutines.
type Pool struct {
	engine  *engine.Engine
	sem     *semaphore.Weighted
	workers int
	clock   engine.Clock
	ids     IDGenerator
	logger  *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithWorkers sets the number of worker slots. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		p.workers = max(n, 1)
	}
}

// WithClock sets the clock used for retry waits and run timing.
// It should be the same clock the engine measures regions with.
func WithClock(c engine.Clock) Option {
	return func(p *Pool) {
		p.clock = c
	}
}

// WithIDGenerator sets the run ID source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(p *Pool) {
		p.ids = g
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = l
	}
}

// New creates a pool that runs scenarios on eng.
func New(eng *engine.Engine, opts ...Option) *Pool {
	p := &Pool{
		engine:  eng,
		workers: DefaultWorkers,
		clock:   engine.SystemClock{},
		ids:     UUIDv7Generator{},
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.sem = semaphore.NewWeighted(int64(p.workers))
	return p
}

// Workers returns the number of worker slots.
func (p *Pool) Workers() int {
	return p.workers
}

// Run executes one job once a worker slot is free.
//
// The only error is ctx ending before a slot was acquired. A scenario that
// fails is reported through Result.Report, not as an error.
func (p *Pool) Run(ctx context.Context, job Job) (Result, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Result{}, fmt.Errorf("acquire worker slot for %q: %w", job.Scenario.Name, err)
	}
	w := &slotWaiter{sem: p.sem, clock: p.clock, held: true}
	defer w.release()

	id := p.ids.Generate()
	logger := p.logger.With("run_id", id, "scenario", job.Scenario.Name)
	logger.Debug("run started")

	started := p.clock.Now()
	r := p.engine.Using(w).Run(ctx, job.Session, job.Scenario)
	duration := p.clock.Now().Sub(started)

	logger.Debug("run finished", "passed", r.Passed(), "duration", duration)

	return Result{
		ID:       id,
		Scenario: job.Scenario.Name,
		Initial:  job.Session,
		Report:   r,
		Started:  started,
		Duration: duration,
	}, nil
}

// RunAll runs jobs concurrently and returns their results in job order.
//
// If ctx ends while jobs are still queued for a slot, RunAll returns the
// error; runs already executing finish with whatever their retry regions
// had reached.
func (p *Pool) RunAll(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	for i, job := range jobs {
		g.Go(func() error {
			r, err := p.Run(gctx, job)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// slotWaiter is the engine.Waiter handed to each run. It releases the run's
// slot for the duration of a wait and takes it back afterwards.
//
// A slotWaiter belongs to a single run, which is sequential, so held needs no
// locking.
type slotWaiter struct {
	sem   *semaphore.Weighted
	clock engine.Clock
	held  bool
}

// Wait implements engine.Waiter.
func (w *slotWaiter) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	w.sem.Release(1)
	w.held = false

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.clock.After(d):
	}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	w.held = true
	return nil
}

// release returns the slot if the run still holds it.
func (w *slotWaiter) release() {
	if w.held {
		w.sem.Release(1)
		w.held = false
	}
}
