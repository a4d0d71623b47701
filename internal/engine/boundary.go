package engine

import "github.com/roach88/brine/internal/step"

// FindEnclosedSteps resolves the region opened by an EventuallyStart whose
// following steps are rest.
//
// It counts depth from 1: every further EventuallyStart adds one, every
// EventuallyStop removes one, and the Stop that brings depth to 0 closes the
// region. enclosed holds every step before that Stop and tail every step
// after it; the closing Stop is in neither. Nested regions end up inside
// enclosed, sibling regions after the closing Stop end up in tail.
//
// found is false when rest has no matching Stop. enclosed is then all of rest
// and tail is empty.
func FindEnclosedSteps(rest []step.Step) (enclosed, tail []step.Step, found bool) {
	depth := 1
	for i, s := range rest {
		switch s.(type) {
		case step.EventuallyStart:
			depth++
		case step.EventuallyStop:
			depth--
			if depth == 0 {
				// Cap capacity so appends to enclosed never overwrite the Stop.
				return rest[:i:i], rest[i+1:], true
			}
		}
	}
	return rest, nil, false
}
