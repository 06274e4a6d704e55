package kv

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     []byte
	list      [][]byte
	expiresAt time.Time
}

// Memory is an in-process Store for unit tests and single-node dev runs.
// Expired entries are dropped lazily on access; there is no sweeper.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry

	// now is overridable in tests to exercise TTL behavior without sleeping.
	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memEntry),
		now:     time.Now,
	}
}

// live returns the entry for key if present and unexpired, dropping it otherwise.
// Callers must hold mu.
func (m *Memory) live(key string) (memEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.entries, key)
		return memEntry{}, false
	}
	return e, true
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memEntry{
		value:     append([]byte(nil), value...),
		expiresAt: m.now().Add(time.Duration(ttlSeconds(ttl)) * time.Second),
	}
	return nil
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok || e.value == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.value...), nil
}

// Delete implements Store.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

// PushCapped implements Store.
func (m *Memory) PushCapped(_ context.Context, key string, item []byte, cap int, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, _ := m.live(key)
	list := append(e.list, append([]byte(nil), item...))
	if len(list) > cap {
		list = list[len(list)-cap:]
	}
	m.entries[key] = memEntry{
		list:      list,
		expiresAt: m.now().Add(time.Duration(ttlSeconds(ttl)) * time.Second),
	}
	return nil
}

// Ping always succeeds; the memory store has no external dependency.
func (m *Memory) Ping(context.Context) error { return nil }

// ReadList implements Store.
func (m *Memory) ReadList(_ context.Context, key string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.live(key)
	if !ok {
		return nil, nil
	}
	out := make([][]byte, len(e.list))
	copy(out, e.list)
	return out, nil
}
