package semexpr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheParse(t *testing.T) {
	cache := NewCache(2)

	first, err := cache.Parse(">=1.0 <2.0")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := cache.Parse(">=1.0 <2.0")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	_, err = cache.Parse(">=")
	assert.ErrorIs(t, err, ErrMalformedComparator)
	assert.Equal(t, 1, cache.Len(), "failures are not cached")

	_, _ = cache.Parse("=1")
	_, _ = cache.Parse("=2")
	assert.Equal(t, 2, cache.Len(), "bounded by size")

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestNilCacheParses(t *testing.T) {
	var cache *Cache
	parsed, err := cache.Parse("*")
	require.NoError(t, err)
	assert.Len(t, parsed.Groups, 1)
	assert.Equal(t, 0, cache.Len())
}

func TestCacheConcurrentUse(t *testing.T) {
	cache := NewCache(8)
	v, err := ParseVersion("1.5.0")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			parsed, err := cache.Parse(">=1.0.0 <2.0.0|=3.1.0")
			assert.NoError(t, err)
			assert.True(t, parsed.Evaluate(v))
		}()
	}
	wg.Wait()
}
