// Package report defines the outcome of a scenario run.
//
// A run produces exactly one Report: Success carrying the final session, or
// Failure describing the first failing step, the titles that succeeded before
// it, and the titles that were never reached.
package report

import (
	"time"

	"github.com/roach88/brine/internal/session"
)

// Report is the outcome of one scenario run. Implemented only by Success
// and Failure.
type Report interface {
	// Passed reports whether the run succeeded.
	Passed() bool

	// Events returns the execution trace of the run.
	Events() []TraceEvent

	reportMarker()
}

// Success is a run where every step succeeded.
type Success struct {
	Session session.Session
	Trace   []TraceEvent
}

// FailedStep identifies the step that ended a run and why.
type FailedStep struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Failure is a run stopped by a failing step.
type Failure struct {
	FailedStep FailedStep

	// SuccessSteps are the titles that succeeded before the failure, in
	// executed order with attach steps expanded.
	SuccessSteps []string

	// NotExecutedSteps are the titles of the steps still queued after the
	// failure, in queue order. Attach steps list their nested titles and an
	// unreached eventually block lists its own title before its steps.
	NotExecutedSteps []string

	Trace []TraceEvent
}

// Passed implements Report.
func (Success) Passed() bool { return true }

// Passed implements Report.
func (Failure) Passed() bool { return false }

// Events implements Report.
func (s Success) Events() []TraceEvent { return s.Trace }

// Events implements Report.
func (f Failure) Events() []TraceEvent { return f.Trace }

func (Success) reportMarker() {}
func (Failure) reportMarker() {}

// TraceKind names an entry of the execution trace.
type TraceKind string

const (
	KindStepSucceeded       TraceKind = "step_succeeded"
	KindStepFailed          TraceKind = "step_failed"
	KindDebug               TraceKind = "debug"
	KindEventuallyStarted   TraceKind = "eventually_started"
	KindEventuallyRetry     TraceKind = "eventually_retry"
	KindEventuallySucceeded TraceKind = "eventually_succeeded"
	KindEventuallyFailed    TraceKind = "eventually_failed"
)

// TraceEvent records one thing that happened during a run.
type TraceEvent struct {
	Kind TraceKind `json:"kind"`

	// Title of the step, or of the eventually block for region events.
	Title string `json:"title,omitempty"`

	// Message is the debug output or the failure message.
	Message string `json:"message,omitempty"`

	// Depth is the nesting level of retry regions the event happened in.
	Depth int `json:"depth"`

	// Attempt counts attempts of a retry region (region events only).
	Attempt int `json:"attempt,omitempty"`

	// Elapsed is the time spent in a retry region (region events only).
	Elapsed time.Duration `json:"elapsed_ns,omitempty"`
}
