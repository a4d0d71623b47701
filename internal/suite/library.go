package suite

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/brine/internal/session"
	"github.com/roach88/brine/internal/step"
)

// Set stores value under key. It always passes.
func Set(key string, value any) step.Runnable {
	return step.Runnable{
		Title: "set " + key,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			return s.Set(key, value), step.Equals(true, true), nil
		},
	}
}

// Assert checks that the session value under key equals expected. A missing
// key reads as nil. An empty title is replaced by a generated one.
func Assert(title, key string, expected any, negate bool) step.Runnable {
	if title == "" {
		op := "=="
		if negate {
			op = "!="
		}
		title = fmt.Sprintf("assert %s %s %v", key, op, expected)
	}
	return step.Runnable{
		Title:  title,
		Negate: negate,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			actual, _ := s.Get(key)
			return s, step.Equals(expected, actual), nil
		},
	}
}

// Debug renders the listed keys, or the whole session when keys is empty.
func Debug(title string, keys ...string) step.Debug {
	if title == "" {
		title = "debug"
	}
	return step.Debug{
		Title: title,
		Message: func(_ context.Context, s session.Session) (string, error) {
			if len(keys) == 0 {
				return s.String(), nil
			}
			return s.Pick(keys...).String(), nil
		},
	}
}

// ReadFile stores the contents of path under key. An unreadable file fails
// the step abnormally, which makes it a natural body for an eventually block
// waiting for a file to appear.
func ReadFile(path, key string) step.Runnable {
	return step.Runnable{
		Title: "read file " + path,
		Action: func(_ context.Context, s session.Session) (session.Session, step.Assertion, error) {
			data, err := os.ReadFile(path)
			if err != nil {
				return s, step.Assertion{}, fmt.Errorf("read %s: %w", path, err)
			}
			return s.Set(key, string(data)), step.Equals(true, true), nil
		},
	}
}
