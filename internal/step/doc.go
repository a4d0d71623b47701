// Package step defines the executable units of a scenario and the assertion
// they check.
//
// A Step is one of five variants:
//
//   - Runnable: a titled body returning the next session and an Assertion.
//   - Debug: a titled body returning text to log; never changes the session.
//   - Attach: an untitled group of steps expanded inline by the engine.
//   - EventuallyStart / EventuallyStop: the markers of a retry region.
//
// Step bodies are opaque to the engine. Their failures come in two tiers,
// both reported the same way: *AssertionError for an expected/actual
// mismatch, and *AbnormalError for a body that returned an error or panicked.
//
// The assertion failure message is stable and user facing:
//
//	expected result was:
//	'<expected>'
//	but actual result is:
//	'<actual>'
package step
