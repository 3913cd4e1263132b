package cache

import (
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	"inceptiv/crenewsworker/logger"
)

// ErrCacheMiss is returned by Get when the key is not cached.
var ErrCacheMiss = errors.New("cache: miss")

// CacheService stores fetched page bodies keyed by URL.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}

// IsMiss reports whether err means the key was not cached, for any backend.
func IsMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss) || errors.Is(err, memcache.ErrCacheMiss)
}

// New returns a memcache-backed cache when addr is set and an in-process
// cache otherwise.
func New(addr string, defaultTTL time.Duration) CacheService {
	log := logger.ForCache()
	if addr != "" {
		log.Debug().Str("addr", addr).Msg("Using memcache page cache")
		return NewMemcacheService(addr)
	}
	log.Debug().Dur("ttl", defaultTTL).Msg("Using in-process page cache")
	return NewMemoryService(defaultTTL, 10*time.Minute)
}
