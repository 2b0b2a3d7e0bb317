package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates readable, deterministic bill ids: prefix-1,
// prefix-2, and so on. Golden files stay stable across runs because the
// ids never depend on wall time.
//
// Thread-safety: SequentialIDs is safe for concurrent use via internal mutex.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix becomes "BILL".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "BILL"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next id.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
