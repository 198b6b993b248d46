package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DEFAULT_MEMORY_ENTRIES = 256

// MemoryStore keeps artifacts in an in-process LRU with expiry.
type MemoryStore struct {
	cache *expirable.LRU[string, Artifact]
	ttl   time.Duration
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DEFAULT_MEMORY_ENTRIES
	}
	return &MemoryStore{cache: expirable.NewLRU[string, Artifact](size, nil, ttl), ttl: ttl}
}

func (m *MemoryStore) Put(_ context.Context, key string, a Artifact) error {
	m.cache.Add(key, a)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, key string) (Artifact, error) {
	a, ok := m.cache.Get(key)
	if !ok {
		return Artifact{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) TTL() time.Duration { return m.ttl }
