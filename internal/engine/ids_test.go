package engine

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cafebill/internal/testutil"
)

func TestMillisIDGenerator_Format(t *testing.T) {
	clock := testutil.NewStepClock(time.UnixMilli(1714555800000).UTC(), time.Second)
	gen := NewMillisIDGenerator(clock)

	assert.Equal(t, "BILL-1714555800000", gen.Generate())
	assert.Equal(t, "BILL-1714555801000", gen.Generate())
}

func TestMillisIDGenerator_SameMillisecondBumps(t *testing.T) {
	clock := testutil.NewStepClock(time.UnixMilli(1000).UTC(), 0)
	gen := NewMillisIDGenerator(clock)

	assert.Equal(t, "BILL-1000", gen.Generate())
	assert.Equal(t, "BILL-1001", gen.Generate())
	assert.Equal(t, "BILL-1002", gen.Generate())
}

func TestMillisIDGenerator_StrictlyIncreasingConcurrent(t *testing.T) {
	gen := NewMillisIDGenerator(nil)

	const n = 200
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- gen.Generate()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.True(t, strings.HasPrefix(id, BillIDPrefix))
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestUUIDv7Generator(t *testing.T) {
	gen := UUIDv7Generator{}

	id := gen.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, gen.Generate())
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}

func TestNewIDGenerator(t *testing.T) {
	g, err := NewIDGenerator("", nil)
	require.NoError(t, err)
	assert.IsType(t, &MillisIDGenerator{}, g)

	g, err = NewIDGenerator("uuid", nil)
	require.NoError(t, err)
	assert.IsType(t, UUIDv7Generator{}, g)

	_, err = NewIDGenerator("sequential", nil)
	assert.Error(t, err)
}
