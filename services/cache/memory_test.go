package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryService(t *testing.T) {
	mc := NewMemoryService(time.Minute, time.Minute)

	_, err := mc.Get("https://example.com/a")
	assert.True(t, IsMiss(err))

	assert.NoError(t, mc.Set("https://example.com/a", []byte("body"), time.Minute))
	value, err := mc.Get("https://example.com/a")
	assert.NoError(t, err)
	assert.Equal(t, "body", string(value))

	assert.NoError(t, mc.Delete("https://example.com/a"))
	_, err = mc.Get("https://example.com/a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryService_Expiry(t *testing.T) {
	mc := NewMemoryService(time.Minute, time.Minute)

	assert.NoError(t, mc.Set("k", []byte("v"), 10*time.Millisecond))
	time.Sleep(30 * time.Millisecond)

	_, err := mc.Get("k")
	assert.True(t, IsMiss(err))
}

func TestNew(t *testing.T) {
	assert.IsType(t, &MemoryService{}, New("", time.Minute))
	assert.IsType(t, &MemcacheService{}, New("localhost:11211", time.Minute))
}
