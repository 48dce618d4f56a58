package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	body     []byte
	storedAt time.Time
}

// MemoryCache keeps responses in process memory.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     Clock
	entries map[string]memoryEntry
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(ttl time.Duration, now Clock) *MemoryCache {
	if now == nil {
		now = time.Now
	}
	return &MemoryCache{ttl: ttl, now: now, entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if expired(e.storedAt, m.now(), m.ttl) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return append([]byte(nil), e.body...), true, nil
}

func (m *MemoryCache) Set(key string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{body: append([]byte(nil), body...), storedAt: m.now()}
	return nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryCache) Purge() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	n := 0
	for k, e := range m.entries {
		if expired(e.storedAt, now, m.ttl) {
			delete(m.entries, k)
			n++
		}
	}
	return n, nil
}

func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemoryCache) Close() error { return nil }
