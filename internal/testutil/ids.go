// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import "sync"

// FixedIDs returns predetermined identifiers for testing.
//
// This enables deterministic journal contents and golden comparison.
// Tests provide a known sequence of IDs and verify exact output.
//
// Thread-safety: FixedIDs is safe for concurrent use via internal mutex.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
//
// Example:
//
//	gen := testutil.NewFixedIDs("id-1", "id-2")
//	gen.Generate() // "id-1"
//	gen.Generate() // "id-2"
//	gen.Generate() // panic: all ids exhausted
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next predetermined ID.
//
// Panics when all IDs have been consumed. This is a fail-fast approach
// to catch test misconfiguration (test journaled more files than expected).
func (g *FixedIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDs: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
