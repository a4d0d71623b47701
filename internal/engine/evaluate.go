package engine

import (
	"context"
	"errors"

	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

var (
	errNoAction  = errors.New("runnable step has no action")
	errNoMessage = errors.New("debug step has no message")
)

// evaluateRunnable runs the body of r against s and applies its predicate.
// On success it returns the session produced by the body; on failure the
// session is irrelevant and the error is an *step.AssertionError or
// *step.AbnormalError.
func evaluateRunnable(ctx context.Context, r step.Runnable, s session.Session) (session.Session, error) {
	next, assertion, err := evaluateStepBody(ctx, r.Action, s)
	if err != nil {
		return s, err
	}
	if err := step.EvaluatePredicate(r.Negate, assertion); err != nil {
		return s, err
	}
	return next, nil
}

// evaluateStepBody is the single boundary where step bodies are invoked.
// Returned errors and panics are converted to *step.AbnormalError.
func evaluateStepBody(ctx context.Context, action step.Action, s session.Session) (next session.Session, assertion step.Assertion, err error) {
	if action == nil {
		return s, step.Assertion{}, step.NewAbnormalError(errNoAction)
	}

	defer func() {
		if r := recover(); r != nil {
			next, assertion, err = s, step.Assertion{}, step.NewPanicError(r)
		}
	}()

	next, assertion, err = action(ctx, s)
	if err != nil {
		return s, step.Assertion{}, step.NewAbnormalError(err)
	}
	return next, assertion, nil
}

// evaluateDebug runs the body of a debug step. The session is never changed.
func evaluateDebug(ctx context.Context, d step.Debug, s session.Session) (out string, err error) {
	if d.Message == nil {
		return "", step.NewAbnormalError(errNoMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			out, err = "", step.NewPanicError(r)
		}
	}()

	out, err = d.Message(ctx, s)
	if err != nil {
		return "", step.NewAbnormalError(err)
	}
	return out, nil
}
