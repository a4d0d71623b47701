package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/brine/internal/report"
	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
	"github.com/roach88/brine/internal/testutil"
)

func newTestEngine(t *testing.T) (*Engine, *testutil.FakeClock) {
	t.Helper()
	clock := testutil.NewFakeClock()
	return New(WithClock(clock)), clock
}

// assertStep checks expected against actual and leaves the session alone.
func assertStep(title string, expected, actual any) step.Runnable {
	return step.Runnable{
		Title: title,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			return s, step.Equals(expected, actual), nil
		},
	}
}

// setStep stores value under key and always succeeds.
func setStep(key string, value any) step.Runnable {
	return step.Runnable{
		Title: "set " + key,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			return s.Set(key, value), step.Equals(true, true), nil
		},
	}
}

// errorStep returns err from its body.
func errorStep(title string, err error) step.Runnable {
	return step.Runnable{
		Title: title,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			return s, step.Assertion{}, err
		},
	}
}

// panicStep panics with v.
func panicStep(title string, v any) step.Runnable {
	return step.Runnable{
		Title: title,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			panic(v)
		},
	}
}

// countingStep succeeds from the succeedOn-th call onwards.
func countingStep(title string, calls *int, succeedOn int) step.Runnable {
	return step.Runnable{
		Title: title,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			*calls++
			return s.Set("attempt", *calls), step.Equals(true, *calls >= succeedOn), nil
		},
	}
}

func scenario(steps ...step.Step) step.Scenario {
	return step.Scenario{Name: "test", Steps: steps}
}

func requireSuccess(t *testing.T, r report.Report) report.Success {
	t.Helper()
	s, ok := r.(report.Success)
	require.True(t, ok, "expected success, got %#v", r)
	return s
}

func requireFailure(t *testing.T, r report.Report) report.Failure {
	t.Helper()
	f, ok := r.(report.Failure)
	require.True(t, ok, "expected failure, got %#v", r)
	return f
}

func kinds(trace []report.TraceEvent) []report.TraceKind {
	out := make([]report.TraceKind, len(trace))
	for i, ev := range trace {
		out[i] = ev.Kind
	}
	return out
}
