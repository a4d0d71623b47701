// Package runner runs many scenarios concurrently on a bounded worker pool.
//
// Every run holds one worker slot while it executes steps. When a run enters
// the pause between two attempts of an eventually block it gives its slot
// back, waits on the clock, and takes a slot again before the next attempt.
// A scenario that is polling therefore never starves scenarios that could make
// progress.
//
// Within a run execution stays strictly sequential; runs share nothing but
// the engine configuration.
package runner
