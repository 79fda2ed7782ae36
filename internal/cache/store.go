package cache

import (
	"context"
	"sync"
	"time"
)

// Store is the volatile cache capability: get by key, set with a TTL
// that only bounds growth and plays no part in freshness decisions.
// The implementation is selected once at process start.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NopStore is the offline/bypass implementation: it holds nothing.
type NopStore struct{}

func (NopStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NopStore) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return nil
}

// MemoryStore is an in-process Store for tests and single-node runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		value:     append([]byte(nil), value...),
		expiresAt: s.now().Add(ttl),
	}
	return nil
}
