package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// Engine runs scenarios.
//
// An Engine holds configuration only; all per-run data lives in RunState
// values. It is safe to call Run from many goroutines at once.
type Engine struct {
	clock  Clock
	waiter Waiter
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used to measure retry regions.
// Default: SystemClock.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithWaiter sets how a run waits between retry attempts.
// Default: TimerWaiter on the engine's clock.
func WithWaiter(w Waiter) Option {
	return func(e *Engine) {
		e.waiter = w
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.waiter == nil {
		e.waiter = TimerWaiter{Clock: e.clock}
	}
	return e
}

// Using returns a copy of the engine that waits between retry attempts with w.
// The worker pool uses it to hand each run a waiter tied to its slot.
func (e *Engine) Using(w Waiter) *Engine {
	clone := *e
	clone.waiter = w
	return &clone
}

// Run executes the scenario starting from s and returns its report.
//
// Run never panics and never returns an error: every path ends in exactly one
// of report.Success or report.Failure. ctx only shortens waits between retry
// attempts; a step that is already running is not interrupted.
func (e *Engine) Run(ctx context.Context, s session.Session, sc step.Scenario) report.Report {
	logger := e.logger.With("scenario", sc.Name)
	logger.Debug("scenario starting", "steps", len(sc.Steps))

	final, fail := e.runSteps(ctx, logger, newRunState(sc.Steps, s, 0))
	if fail != nil {
		logger.Info("scenario failed",
			"failed_step", fail.failed.Title,
			"succeeded", len(fail.titles),
			"not_executed", len(fail.notExecuted),
		)
		return failureReport(fail)
	}

	logger.Info("scenario succeeded", "succeeded", len(final.titles))
	return successReport(final)
}

// runSteps drives st until its queue is empty or a step fails.
//
// The loop is iterative over the queue; it only recurses into retry regions,
// so stack depth follows region nesting, not scenario length.
func (e *Engine) runSteps(ctx context.Context, logger *slog.Logger, st RunState) (RunState, *failure) {
	for len(st.remaining) > 0 {
		head, rest := st.remaining[0], st.remaining[1:]

		switch s := head.(type) {
		case step.Attach:
			st = st.withQueue(slices.Concat(s.Steps, rest))

		case step.EventuallyStart:
			enclosed, tail, found := FindEnclosedSteps(rest)
			if !found {
				logger.Warn("eventually block has no matching end; enclosing the rest of the scenario",
					"steps", len(rest),
				)
			}

			region, fail := e.runEventually(ctx, logger, s.Conf, enclosed, st.session, st.depth)
			if fail != nil {
				return st, st.failRegion(fail, tail)
			}
			st = st.merge(tail, region)

		case step.EventuallyStop:
			st = st.withQueue(rest)

		case step.Runnable:
			next, err := evaluateRunnable(ctx, s, st.session)
			if err != nil {
				logger.Debug("step failed", "title", s.Title, "error", err)
				return st, st.fail(s.Title, err, rest)
			}
			logger.Debug("step succeeded", "title", s.Title)
			st = st.succeed(rest, next, s.Title, report.TraceEvent{
				Kind:  report.KindStepSucceeded,
				Title: s.Title,
				Depth: st.depth,
			})

		case step.Debug:
			out, err := evaluateDebug(ctx, s, st.session)
			if err != nil {
				logger.Debug("step failed", "title", s.Title, "error", err)
				return st, st.fail(s.Title, err, rest)
			}
			logger.Info("debug", "title", s.Title, "output", out)
			st = st.succeed(rest, st.session, s.Title, report.TraceEvent{
				Kind:    report.KindDebug,
				Title:   s.Title,
				Message: out,
				Depth:   st.depth,
			})

		default:
			return st, st.fail(step.Title(head), fmt.Errorf("unsupported step type %T", head), rest)
		}
	}

	return st, nil
}
