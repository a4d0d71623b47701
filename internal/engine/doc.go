// Package engine implements the brine scenario execution core.
//
// The engine takes an initial session and a scenario, runs the scenario's
// steps in order while threading the session through them, and returns
// exactly one report.Report.
//
// ARCHITECTURE:
//
// Run Loop:
// A run is a sequence of RunState values. Each iteration consumes the head of
// the remaining queue and produces a new RunState; nothing is updated in
// place. Dispatch is a type switch over the closed set of step variants:
//   - Attach: its steps are spliced in front of the queue
//   - EventuallyStart: the enclosed region is resolved and retried
//   - EventuallyStop: skipped (only reachable in malformed input)
//   - Runnable / Debug: evaluated; a failure ends the run
//
// Failure Containment:
// Step bodies are opaque. A body that returns an error or panics is caught
// at the single invocation boundary and becomes a failed step. Run never
// panics and never returns an error.
//
// Retry Regions:
// An eventually region is matched to its stop marker by depth counting, so
// nested regions stay inside their parent and later siblings stay outside.
// Each attempt restarts from the session the region was entered with. The
// wait between attempts goes through a Waiter so a worker pool can release
// its slot while a run is idle.
//
// CRITICAL PATTERNS:
//
// Sequential Runs:
// Steps of one run never execute concurrently. Many runs may share an Engine;
// it holds no per-run state.
//
// Time:
// All timing uses the injected Clock. Tests use a fake clock so retry
// regions are deterministic.
package engine
