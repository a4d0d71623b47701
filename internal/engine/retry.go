package engine

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// runEventually executes a resolved retry region.
//
// Every attempt runs enclosed from entry, so session changes made by a failed
// attempt are dropped. After a failed attempt the region waits conf.Interval
// and tries again, unless conf.MaxTime has elapsed since the first attempt
// started, in which case the last failure is returned unchanged. There is
// always at least one attempt.
//
// On success the returned RunState holds the region's session, the titles of
// the successful attempt and its trace, bracketed by region events.
func (e *Engine) runEventually(
	ctx context.Context,
	logger *slog.Logger,
	conf step.EventuallyConf,
	enclosed []step.Step,
	entry session.Session,
	depth int,
) (RunState, *failure) {
	title := step.Title(step.EventuallyStart{Conf: conf})
	events := []report.TraceEvent{{
		Kind:  report.KindEventuallyStarted,
		Title: title,
		Depth: depth,
	}}

	start := e.clock.Now()
	for attempt := 1; ; attempt++ {
		final, fail := e.runSteps(ctx, logger, newRunState(enclosed, entry, depth+1))
		elapsed := e.clock.Now().Sub(start)

		if fail == nil {
			logger.Debug("eventually block succeeded",
				"attempts", attempt,
				"elapsed", elapsed,
			)
			final.trace = slices.Concat(events, final.trace, []report.TraceEvent{{
				Kind:    report.KindEventuallySucceeded,
				Title:   title,
				Depth:   depth,
				Attempt: attempt,
				Elapsed: elapsed,
			}})
			return final, nil
		}

		if elapsed >= conf.MaxTime {
			logger.Debug("eventually block failed",
				"attempts", attempt,
				"elapsed", elapsed,
				"failed_step", fail.failed.Title,
			)
			return RunState{}, regionFailure(events, fail, title, depth, attempt, elapsed)
		}

		events = append(events, report.TraceEvent{
			Kind:    report.KindEventuallyRetry,
			Title:   fail.failed.Title,
			Message: fail.failed.Message,
			Depth:   depth,
			Attempt: attempt,
			Elapsed: elapsed,
		})

		if err := e.waiter.Wait(ctx, conf.Interval); err != nil {
			logger.Warn("eventually block interrupted",
				"attempts", attempt,
				"error", err,
			)
			return RunState{}, regionFailure(events, fail, title, depth, attempt, elapsed)
		}
	}
}

// regionFailure wraps the last attempt's failure with the region's events.
func regionFailure(events []report.TraceEvent, last *failure, title string, depth, attempt int, elapsed time.Duration) *failure {
	return &failure{
		failed:      last.failed,
		titles:      last.titles,
		notExecuted: last.notExecuted,
		trace: slices.Concat(events, last.trace, []report.TraceEvent{{
			Kind:    report.KindEventuallyFailed,
			Title:   title,
			Message: last.failed.Message,
			Depth:   depth,
			Attempt: attempt,
			Elapsed: elapsed,
		}}),
	}
}
