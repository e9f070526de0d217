package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nextgenmedprep/medprep-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataCacheVersioning(t *testing.T) {
	var calls int32
	c := NewDataCache(func(key string) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	v, err := c.Get("stats", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, _ = c.Get("stats", 1)
	assert.Equal(t, 1, v)

	v, _ = c.Get("stats", 2)
	assert.Equal(t, 2, v)

	c.Remove("stats")
	v, _ = c.Get("stats", 2)
	assert.Equal(t, 3, v)
}

func TestDataCacheLoaderError(t *testing.T) {
	c := NewDataCache(func(key string) (int, error) {
		return 0, errors.New("db down")
	})
	_, err := c.Get("stats", 1)
	assert.Error(t, err)
}

func TestDataCacheConcurrentMisses(t *testing.T) {
	var calls int32
	release := make(chan struct{})
	c := NewDataCache(func(key string) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	})
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.Get("stats", 7)
			assert.NoError(t, err)
			assert.Equal(t, 42, v)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTimeBucket(t *testing.T) {
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, TimeBucket(base, time.Minute), TimeBucket(base.Add(59*time.Second), time.Minute))
	assert.NotEqual(t, TimeBucket(base, time.Minute), TimeBucket(base.Add(time.Minute), time.Minute))
}

func TestSubscriptionsCache(t *testing.T) {
	c := NewSubscriptionsCache(time.Minute)
	defer c.Close()

	_, ok := c.Get("a@example.com")
	assert.False(t, ok)

	c.Set(domain.Subscription{Email: "a@example.com", Tier: domain.TierPremiumPlus})
	s, ok := c.Get("a@example.com")
	require.True(t, ok)
	assert.Equal(t, domain.TierPremiumPlus, s.Tier)

	c.Invalidate("a@example.com")
	_, ok = c.Get("a@example.com")
	assert.False(t, ok)
}
