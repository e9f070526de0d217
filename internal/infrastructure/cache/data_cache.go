package cache

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type item[V any] struct {
	value   V
	version int64
}

// DataCache keeps one value per key together with the version it was loaded
// for. Concurrent misses for the same key share a single loader call.
type DataCache[K comparable, V any] struct {
	mu     sync.RWMutex
	items  map[K]*item[V]
	group  singleflight.Group
	loader func(K) (V, error)
}

func NewDataCache[K comparable, V any](loader func(K) (V, error)) *DataCache[K, V] {
	return &DataCache[K, V]{items: make(map[K]*item[V]), loader: loader}
}

func (c *DataCache[K, V]) get(key K) (*item[V], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.items[key]
	return it, ok
}

// Get returns the cached value when it was loaded for the same version,
// otherwise it reloads.
func (c *DataCache[K, V]) Get(key K, version int64) (V, error) {
	if it, ok := c.get(key); ok && it.version == version {
		return it.value, nil
	}
	res, err, _ := c.group.Do(fmt.Sprintf("%v:%d", key, version), func() (interface{}, error) {
		value, err := c.loader(key)
		if err != nil {
			return value, err
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		c.items[key] = &item[V]{value: value, version: version}
		return value, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *DataCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// TimeBucket turns wall time into a version that changes every d.
func TimeBucket(t time.Time, d time.Duration) int64 {
	return t.UnixNano() / int64(d)
}
