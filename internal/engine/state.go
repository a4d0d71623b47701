package engine

import (
	"slices"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// RunState is the execution cursor of a run.
//
// It is a value: every transition returns a new RunState and never appends
// into a backing array another RunState can see. This is what lets a retry
// region restart from the state it was entered with.
type RunState struct {
	remaining []step.Step
	session   session.Session
	titles    []string
	trace     []report.TraceEvent
	depth     int
}

func newRunState(steps []step.Step, s session.Session, depth int) RunState {
	return RunState{remaining: steps, session: s, depth: depth}
}

// Remaining returns the queued steps.
func (st RunState) Remaining() []step.Step { return st.remaining }

// Session returns the current session.
func (st RunState) Session() session.Session { return st.session }

// SuccessTitles returns the titles that succeeded so far.
func (st RunState) SuccessTitles() []string { return st.titles }

// withQueue replaces the queue, leaving everything else as is.
func (st RunState) withQueue(remaining []step.Step) RunState {
	st.remaining = remaining
	return st
}

// succeed records a successful step.
func (st RunState) succeed(remaining []step.Step, next session.Session, title string, events ...report.TraceEvent) RunState {
	return RunState{
		remaining: remaining,
		session:   next,
		titles:    slices.Concat(st.titles, []string{title}),
		trace:     slices.Concat(st.trace, events),
		depth:     st.depth,
	}
}

// merge adopts the outcome of a successful retry region.
func (st RunState) merge(remaining []step.Step, region RunState) RunState {
	return RunState{
		remaining: remaining,
		session:   region.session,
		titles:    slices.Concat(st.titles, region.titles),
		trace:     slices.Concat(st.trace, region.trace),
		depth:     st.depth,
	}
}

// failure is a run that stopped on a failing step.
type failure struct {
	failed      report.FailedStep
	titles      []string
	notExecuted []string
	trace       []report.TraceEvent
}

// fail ends the run at the step titled title. rest is the literal queue
// after the failing step.
func (st RunState) fail(title string, err error, rest []step.Step) *failure {
	return &failure{
		failed:      report.FailedStep{Title: title, Message: err.Error()},
		titles:      st.titles,
		notExecuted: step.Titles(rest),
		trace: slices.Concat(st.trace, []report.TraceEvent{{
			Kind:    report.KindStepFailed,
			Title:   title,
			Message: err.Error(),
			Depth:   st.depth,
		}}),
	}
}

// failRegion ends the run with the last failure of a retry region. Titles
// from earlier attempts are discarded; the last attempt's successes and
// leftovers are kept, followed by the queue after the region.
func (st RunState) failRegion(region *failure, tail []step.Step) *failure {
	return &failure{
		failed:      region.failed,
		titles:      slices.Concat(st.titles, region.titles),
		notExecuted: slices.Concat(region.notExecuted, step.Titles(tail)),
		trace:       slices.Concat(st.trace, region.trace),
	}
}

// successReport assembles the report of a run whose queue emptied.
func successReport(st RunState) report.Report {
	return report.Success{
		Session: st.session,
		Trace:   st.trace,
	}
}

// failureReport assembles the report of a failed run.
func failureReport(f *failure) report.Report {
	return report.Failure{
		FailedStep:       f.failed,
		SuccessSteps:     f.titles,
		NotExecutedSteps: f.notExecuted,
		Trace:            f.trace,
	}
}
