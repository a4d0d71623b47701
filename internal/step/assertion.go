package step

import (
	"fmt"
	"reflect"
	"strings"
)

// Assertion pairs an expected value with the actual one observed by a step.
// It holds when the values are equal, or when they differ and Negate is set.
type Assertion struct {
	Expected any
	Actual   any
	Negate   bool
}

// Equals builds a non-negated assertion.
func Equals(expected, actual any) Assertion {
	return Assertion{Expected: expected, Actual: actual}
}

// Holds reports whether the assertion is satisfied.
func (a Assertion) Holds() bool {
	return Equal(a.Expected, a.Actual) != a.Negate
}

// EvaluatePredicate applies the negation law to a. The step-level negate flag
// is combined with the assertion's own flag. It returns nil when the
// assertion holds and an *AssertionError otherwise.
func EvaluatePredicate(negate bool, a Assertion) error {
	if negate {
		a.Negate = !a.Negate
	}
	if a.Holds() {
		return nil
	}
	return &AssertionError{Expected: a.Expected, Actual: a.Actual, Negated: a.Negate}
}

// Equal compares two values the way assertions do: deep equality, with nil
// equal only to nil.
func Equal(expected, actual any) bool {
	if expected == nil && actual == nil {
		return true
	}
	if expected == nil || actual == nil {
		return false
	}
	return reflect.DeepEqual(expected, actual)
}

// AssertionError is the failure of an expected/actual comparison.
// Its message always labels the raw values; negation never swaps them.
type AssertionError struct {
	Expected any
	Actual   any
	Negated  bool
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected result was:\n'%s'\nbut actual result is:\n'%s'",
		render(e.Expected), render(e.Actual))
}

// render is the textual form of a value in failure messages, with line
// separators normalised to \n.
func render(v any) string {
	s := fmt.Sprintf("%v", v)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
