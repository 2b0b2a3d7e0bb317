package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator generates bill ids.
// Implemented by MillisIDGenerator and UUIDv7Generator (production) and
// FixedGenerator (tests).
type IDGenerator interface {
	Generate() string
}

// BillIDPrefix prefixes millisecond bill ids.
const BillIDPrefix = "BILL-"

// MillisIDGenerator generates "BILL-<unix millis>" ids from a Clock.
//
// Ids are strictly increasing within one generator: a call in the same
// millisecond as (or earlier than) the previous one is bumped to previous+1.
//
// Thread-safety: MillisIDGenerator is safe for concurrent use via internal mutex.
type MillisIDGenerator struct {
	mu    sync.Mutex
	clock Clock
	last  int64
}

// NewMillisIDGenerator creates a generator reading time from clock.
// A nil clock uses SystemClock.
func NewMillisIDGenerator(clock Clock) *MillisIDGenerator {
	if clock == nil {
		clock = SystemClock{}
	}
	return &MillisIDGenerator{clock: clock}
}

// Generate returns the next id.
func (g *MillisIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return fmt.Sprintf("%s%d", BillIDPrefix, ms)
}

// UUIDv7Generator generates time-sortable UUIDv7 bill ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
//
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined ids for testing.
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
//	gen := NewFixedGenerator("BILL-1", "BILL-2")
//	gen.Generate() // "BILL-1"
//	gen.Generate() // "BILL-2"
//	gen.Generate() // panic: all ids exhausted
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed, to catch a test that creates more
// bills than it declared.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

// NewIDGenerator returns the generator for a configured scheme:
// "millis" (default) or "uuid".
func NewIDGenerator(scheme string, clock Clock) (IDGenerator, error) {
	switch scheme {
	case "", "millis":
		return NewMillisIDGenerator(clock), nil
	case "uuid":
		return UUIDv7Generator{}, nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q (want millis or uuid)", scheme)
	}
}
