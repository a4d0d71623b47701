package testutil

import (
	"fmt"
	"sync"
)

// FixedGenerator returns predictable run IDs for tests.
//
// With tokens it returns them in order and panics once they run out, to
// catch tests that start more runs than they expect. Without tokens it
// returns "run-1", "run-2", ...
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
//
// Example:
//
//	gen := NewFixedGenerator("run-a", "run-b")
//	gen.Generate() // "run-a"
//	gen.Generate() // "run-b"
//	gen.Generate() // panic: all tokens exhausted
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next ID.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if len(g.tokens) == 0 {
		return fmt.Sprintf("run-%d", g.idx)
	}
	if g.idx > len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	return g.tokens[g.idx-1]
}
