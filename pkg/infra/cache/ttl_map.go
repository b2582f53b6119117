package cache

import (
	"sync"
	"time"
)

const DefaultTTLMapTTL = 5 * time.Minute

type ttlEntry struct {
	value     interface{}
	expiresAt time.Time
}

// TTLMap is the process local cache in front of redis and postgres. Entries expire lazily on
// read; Set also sweeps expired entries once the map has grown past sweepAt.
type TTLMap struct {
	mu      sync.RWMutex
	data    map[string]ttlEntry
	ttl     time.Duration
	now     func() time.Time
	sweepAt int
}

func NewTTLMap(ttl time.Duration) *TTLMap {
	if ttl <= 0 {
		ttl = DefaultTTLMapTTL
	}
	return &TTLMap{
		data:    make(map[string]ttlEntry),
		ttl:     ttl,
		now:     time.Now,
		sweepAt: 1024,
	}
}

func (m *TTLMap) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().Before(entry.expiresAt) {
		return entry.value, true
	}

	m.mu.Lock()
	if current, ok := m.data[key]; ok && !m.now().Before(current.expiresAt) {
		delete(m.data, key)
	}
	m.mu.Unlock()
	return nil, false
}

func (m *TTLMap) Set(key string, value interface{}) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.data) >= m.sweepAt {
		m.sweepLocked(now)
	}
	m.data[key] = ttlEntry{value: value, expiresAt: now.Add(m.ttl)}
}

func (m *TTLMap) Delete(key string) {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
}

func (m *TTLMap) Clear() {
	m.mu.Lock()
	m.data = make(map[string]ttlEntry)
	m.mu.Unlock()
}

// Len counts stored entries, expired ones included until they are swept.
func (m *TTLMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *TTLMap) sweepLocked(now time.Time) {
	for k, e := range m.data {
		if !now.Before(e.expiresAt) {
			delete(m.data, k)
		}
	}
	if len(m.data)*2 > m.sweepAt {
		m.sweepAt = len(m.data) * 2
	}
}
