package store

import (
	"context"
	"sync"
	"time"

	"github.com/mocksmith/mocksmith/internal/clock"
	quotadomain "github.com/mocksmith/mocksmith/internal/quota/domain"
)

// MemoryStore is the process-local fallback counter store, selected by
// configuration when no redis address is set. A single mutex guards the map;
// counters are pruned lazily on access.
type MemoryStore struct {
	mu      sync.Mutex
	clock   clock.Clock
	entries map[string]memoryEntry
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

func NewMemoryStore(clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:   clk,
		entries: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if !entry.expiresAt.After(s.clock.Now()) {
		delete(s.entries, key)
		return 0, nil
	}
	return entry.count, nil
}

func (s *MemoryStore) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		entry = memoryEntry{}
	}
	entry.count++
	entry.expiresAt = now.Add(ttl)
	s.entries[key] = entry
	return entry.count, nil
}

var _ quotadomain.CounterStore = (*MemoryStore)(nil)
