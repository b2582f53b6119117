package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestTTLMap_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewTTLMap(time.Minute)
	m.now = fixedClock(&now)
	m.Set("room-1", "policy")

	v, ok := m.Get("room-1")
	assert.True(t, ok)
	assert.Equal(t, "policy", v)

	now = now.Add(time.Minute)
	_, ok = m.Get("room-1")
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestTTLMap_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTLMapTTL, NewTTLMap(0).ttl)
}

func TestTTLMap_DeleteAndClear(t *testing.T) {
	m := NewTTLMap(time.Minute)
	m.Set("a", 1)
	m.Set("b", 2)

	m.Delete("a")
	_, ok := m.Get("a")
	assert.False(t, ok)

	m.Clear()
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestTTLMap_SetSweepsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewTTLMap(time.Minute)
	m.now = fixedClock(&now)
	m.sweepAt = 4
	for i := 0; i < 4; i++ {
		m.Set(fmt.Sprintf("old-%d", i), i)
	}

	now = now.Add(2 * time.Minute)
	m.Set("fresh", true)
	assert.Equal(t, 1, m.Len())
}
