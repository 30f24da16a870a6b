package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache is a byte-oriented key/value store with per-key TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, key string) error {
	return nil
}

// DefaultCleanupInterval is how often MemoryCache evicts expired entries.
const DefaultCleanupInterval = time.Minute

// MemoryCache is the single-process fallback used when Redis is not configured.
// A janitor evicts expired entries, so keys that are never read again do not
// accumulate.
type MemoryCache struct {
	items *gocache.Cache
}

func NewMemory() *MemoryCache {
	return NewMemoryWithCleanup(DefaultCleanupInterval)
}

func NewMemoryWithCleanup(interval time.Duration) *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, interval)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	b := v.([]byte)
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

// Len counts stored entries, including expired ones the janitor has not
// evicted yet.
func (m *MemoryCache) Len() int {
	return m.items.ItemCount()
}
