package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var _ CacheService = (*MemoryService)(nil)
var _ CacheService = (*MemcacheService)(nil)

func TestMemoryService(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	mem := NewMemoryService()
	mem.now = func() time.Time { return now }

	_, err := mem.Get("listing_rate_limited")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mem.Set("listing_rate_limited", []byte("300"), 5*time.Minute))
	value, err := mem.Get("listing_rate_limited")
	assert.NoError(t, err)
	assert.Equal(t, "300", string(value))

	now = now.Add(5 * time.Minute)
	_, err = mem.Get("listing_rate_limited")
	assert.ErrorIs(t, err, ErrCacheMiss)

	assert.NoError(t, mem.Set("forever", []byte("1"), 0))
	now = now.Add(24 * time.Hour)
	_, err = mem.Get("forever")
	assert.NoError(t, err)

	assert.NoError(t, mem.Delete("forever"))
	_, err = mem.Get("forever")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
