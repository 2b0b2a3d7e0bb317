package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock(t *testing.T) {
	before := time.Now().Add(-time.Second)
	now := SystemClock{}.Now()

	assert.Equal(t, time.UTC, now.Location())
	assert.True(t, now.After(before))
	assert.Equal(t, 0, now.Nanosecond()%int(time.Millisecond))
}
