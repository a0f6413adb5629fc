package cache

import (
	"context"
	"sync"
	"time"

	"github.com/meridianhq/meridian-backend/internal/engine"
)

// Memory is an in-process Store for single-instance deployments and tests.
// Expired entries are dropped lazily on read and swept whenever Set doubles
// the map since the last sweep.
type Memory struct {
	mu      sync.Mutex
	entries map[Key]memoryEntry
	sweepAt int

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

type memoryEntry struct {
	assessment engine.Assessment
	expiresAt  time.Time
}

// NewMemory returns an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[Key]memoryEntry),
		sweepAt: 64,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key Key) (engine.Assessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return engine.Assessment{}, ErrMiss
	}
	if m.now().After(e.expiresAt) {
		delete(m.entries, key)
		return engine.Assessment{}, ErrMiss
	}
	return e.assessment, nil
}

func (m *Memory) Set(_ context.Context, key Key, a engine.Assessment, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = memoryEntry{assessment: a, expiresAt: m.now().Add(ttl)}

	if len(m.entries) >= m.sweepAt {
		now := m.now()
		for k, e := range m.entries {
			if now.After(e.expiresAt) {
				delete(m.entries, k)
			}
		}
		m.sweepAt = len(m.entries)*2 + 64
	}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, signalID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if k.SignalID == signalID {
			delete(m.entries, k)
		}
	}
	return nil
}

var _ Store = (*Memory)(nil)
