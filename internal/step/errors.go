package step

import (
	"errors"
	"fmt"
)

// AbnormalError is a step body that did not produce a result: it returned an
// error or panicked.
type AbnormalError struct {
	// Cause is the error returned by the body, or the recovered panic
	// converted to an error.
	Cause error

	// Panicked is set when the body panicked rather than returning.
	Panicked bool
}

// Error implements the error interface.
func (e *AbnormalError) Error() string {
	if e.Panicked {
		return fmt.Sprintf("step panicked: %v", e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying cause.
func (e *AbnormalError) Unwrap() error {
	return e.Cause
}

// NewAbnormalError wraps an error returned by a step body.
func NewAbnormalError(cause error) *AbnormalError {
	if cause == nil {
		cause = errors.New("step failed without a cause")
	}
	return &AbnormalError{Cause: cause}
}

// NewPanicError wraps a value recovered from a panicking step body.
func NewPanicError(recovered any) *AbnormalError {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}
	return &AbnormalError{Cause: cause, Panicked: true}
}

// IsAssertionError reports whether err is, or wraps, an expected/actual mismatch.
// Uses errors.As to handle wrapped errors.
func IsAssertionError(err error) bool {
	var ae *AssertionError
	return errors.As(err, &ae)
}

// IsAbnormal reports whether err is, or wraps, an abnormal step failure.
func IsAbnormal(err error) bool {
	var ae *AbnormalError
	return errors.As(err, &ae)
}
