package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/bradfitz/gomemcache/memcache"

	apperrors "inceptiv/crenewsworker/pkg/errors"
)

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a new memcache service
func NewMemcacheService(serverAddr string) *MemcacheService {
	return &MemcacheService{
		client: memcache.New(serverAddr),
	}
}

// memcache keys are limited to 250 bytes without spaces or control
// characters, so URLs are hashed.
func memcacheKey(key string) string {
	sum := sha1.Sum([]byte(key))
	return "page:" + hex.EncodeToString(sum[:])
}

// maxRelativeExpiration is the longest TTL memcache accepts as seconds;
// larger values are read as absolute unix times.
const maxRelativeExpiration = 30 * 24 * time.Hour

// memcacheExpiration converts a TTL to memcache's expiration field. Zero or
// negative means no expiry, sub-second TTLs round up to one second.
func memcacheExpiration(ttl time.Duration, now time.Time) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxRelativeExpiration {
		return int32(now.Add(ttl).Unix())
	}
	secs := int32(ttl / time.Second)
	if ttl%time.Second != 0 {
		secs++
	}
	return secs
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(memcacheKey(key))
	if err == memcache.ErrCacheMiss {
		return nil, err
	}
	if err != nil {
		return nil, apperrors.NewCache("", "memcache get", err)
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	err := m.client.Set(&memcache.Item{
		Key:        memcacheKey(key),
		Value:      value,
		Expiration: memcacheExpiration(expiration, time.Now()),
	})
	if err != nil {
		return apperrors.NewCache("", "memcache set", err)
	}
	return nil
}

// Delete removes a value from memcache. Deleting a missing key is not an
// error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(memcacheKey(key))
	if err != nil && err != memcache.ErrCacheMiss {
		return apperrors.NewCache("", "memcache delete", err)
	}
	return nil
}
