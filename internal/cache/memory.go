package cache

import (
	"context"
	"sync"
	"time"

	"launchfast/internal/engine"
)

// Memory is a thread-safe in-memory MarketCache with per-entry TTL.
// Expired entries are dropped lazily on read and swept on write.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemory creates an empty in-memory cache with the given TTL.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the cached result for key if present and unexpired.
func (m *Memory) Get(_ context.Context, key string) (*engine.Result[engine.Market], bool) {
	if key == "" {
		return nil, false
	}
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expires) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	res := e.res
	return &res, true
}

// Set stores a result under key, sweeping any expired entries.
func (m *Memory) Set(_ context.Context, key string, res engine.Result[engine.Market]) {
	if key == "" {
		return
	}
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{res: res, expires: now.Add(m.ttl)}
}

// Len reports the number of live entries (expired ones may linger until the
// next write).
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
