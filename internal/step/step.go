package step

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/brine/internal/session"
)

// Step is a unit of execution. The set of implementations is closed:
// Runnable, Debug, Attach, EventuallyStart and EventuallyStop. Consumers
// dispatch with a type switch over exactly these five types.
//
// Steps are immutable once built and may be shared between runs.
type Step interface {
	// stepMarker is a private method to restrict implementers.
	stepMarker()
}

// Action is the body of a Runnable step. It receives the current session and
// returns the next session with the assertion to check. A returned error is
// an abnormal failure of the step.
type Action func(ctx context.Context, s session.Session) (session.Session, Assertion, error)

// Message is the body of a Debug step. The returned text is logged; the
// session is never changed by a debug step.
type Message func(ctx context.Context, s session.Session) (string, error)

// Runnable is an assertion step.
type Runnable struct {
	Title string

	// Negate inverts the outcome of the assertion returned by Action.
	Negate bool

	Action Action
}

// Debug is a logging step.
type Debug struct {
	Title   string
	Message Message
}

// Attach groups nested steps. It has no title of its own and is expanded in
// place by the engine, so its steps behave exactly as if written inline.
type Attach struct {
	Steps []Step
}

// EventuallyConf bounds a retry region.
type EventuallyConf struct {
	// MaxTime is the wall-clock budget after which a failing attempt is final.
	MaxTime time.Duration

	// Interval is the pause between a failed attempt and the next one.
	Interval time.Duration
}

// String describes the configuration for titles and logs.
func (c EventuallyConf) String() string {
	return fmt.Sprintf("maxDuration = %s and interval = %s", c.MaxTime, c.Interval)
}

// EventuallyStart opens a retry region.
type EventuallyStart struct {
	Conf EventuallyConf
}

// EventuallyStop closes the retry region opened by the matching EventuallyStart.
type EventuallyStop struct {
	Conf EventuallyConf
}

func (Runnable) stepMarker()        {}
func (Debug) stepMarker()           {}
func (Attach) stepMarker()          {}
func (EventuallyStart) stepMarker() {}
func (EventuallyStop) stepMarker()  {}

// Title returns the title a step is reported under. Attach and
// EventuallyStop have no title and return "".
func Title(s Step) string {
	switch st := s.(type) {
	case Runnable:
		return st.Title
	case Debug:
		return st.Title
	case Attach:
		return ""
	case EventuallyStart:
		return "Eventually block with " + st.Conf.String()
	case EventuallyStop:
		return ""
	default:
		return ""
	}
}

// Titles returns the non-empty titles of steps in order. An Attach has no
// title of its own and contributes the titles of its steps instead.
func Titles(steps []Step) []string {
	return appendTitles(make([]string, 0, len(steps)), steps)
}

func appendTitles(titles []string, steps []Step) []string {
	for _, s := range steps {
		if a, ok := s.(Attach); ok {
			titles = appendTitles(titles, a.Steps)
			continue
		}
		if t := Title(s); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Eventually wraps steps in a retry region: [Start, steps..., Stop].
func Eventually(conf EventuallyConf, steps ...Step) []Step {
	region := make([]Step, 0, len(steps)+2)
	region = append(region, EventuallyStart{Conf: conf})
	region = append(region, steps...)
	region = append(region, EventuallyStop{Conf: conf})
	return region
}

// AssertStep builds a Runnable that checks expected against actual without
// touching the session.
func AssertStep(title string, expected, actual func() any) Runnable {
	return Runnable{
		Title: title,
		Action: func(_ context.Context, s session.Session) (session.Session, Assertion, error) {
			return s, Equals(expected(), actual()), nil
		},
	}
}

// Scenario is a named, ordered list of steps forming one test case.
type Scenario struct {
	Name  string
	Steps []Step
}
