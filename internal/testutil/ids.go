package testutil

import (
	"fmt"
	"sync"
)

// FixedGenerator returns predetermined invocation ids for testing.
//
// Tests can provide a known sequence of ids and assert on exact log or
// handle output. Once the list is exhausted it falls back to "id-N" so
// tests that spawn an unknown number of executions still get stable ids.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
//
// Example:
//
//	gen := NewFixedGenerator("inv-1", "inv-2")
//	gen.Generate() // "inv-1"
//	gen.Generate() // "inv-2"
//	gen.Generate() // "id-3"
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.idx++
	if g.idx <= len(g.ids) {
		return g.ids[g.idx-1]
	}
	return fmt.Sprintf("id-%d", g.idx)
}

// Count returns how many ids have been generated.
func (g *FixedGenerator) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.idx
}
