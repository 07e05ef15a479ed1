package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/lankabuy-storefront/internal/config"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	cfg     *config.CacheConfig
	now     func() time.Time
}

// NewMemoryCache keeps entries in process. Values round-trip through JSON so
// callers see the same copy semantics as with redis.
func NewMemoryCache(cfg *config.CacheConfig) Cache {
	return &memoryCache{
		entries: make(map[string]memoryEntry),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (m *memoryCache) Get(_ context.Context, key string, value any) (bool, error) {
	m.mu.Lock()
	entry, ok := m.entries[key]
	if ok && !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(entry.data, value); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache data for key %s: %w", key, err)
	}

	return true, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if ttl <= 0 {
		ttl = m.cfg.DefaultTTL
	}

	entry := memoryEntry{data: data}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()

	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()

	return nil
}

func (m *memoryCache) Close() error {
	m.mu.Lock()
	clear(m.entries)
	m.mu.Unlock()

	return nil
}
