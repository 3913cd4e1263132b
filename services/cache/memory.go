package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryService implements CacheService in process with go-cache.
type MemoryService struct {
	cache *gocache.Cache
}

// NewMemoryService creates an in-process cache
func NewMemoryService(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryService {
	return &MemoryService{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (m *MemoryService) Get(key string) ([]byte, error) {
	if val, found := m.cache.Get(key); found {
		return val.([]byte), nil
	}
	return nil, ErrCacheMiss
}

// Set stores a value in the cache with the given TTL
func (m *MemoryService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache.Set(key, value, expiration)
	return nil
}

// Delete removes a value from the cache
func (m *MemoryService) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}
