package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/nextgenmedprep/medprep-server/internal/domain"
)

// SubscriptionsCache memoizes subscription lookups used by access checks.
type SubscriptionsCache struct {
	cache *ttlcache.Cache[string, domain.Subscription]
}

func NewSubscriptionsCache(ttl time.Duration) *SubscriptionsCache {
	c := ttlcache.New[string, domain.Subscription](
		ttlcache.WithTTL[string, domain.Subscription](ttl),
		ttlcache.WithDisableTouchOnHit[string, domain.Subscription](),
	)
	go c.Start()
	return &SubscriptionsCache{cache: c}
}

func (c *SubscriptionsCache) Get(email string) (domain.Subscription, bool) {
	it := c.cache.Get(email)
	if it == nil {
		return domain.Subscription{}, false
	}
	return it.Value(), true
}

func (c *SubscriptionsCache) Set(s domain.Subscription) {
	c.cache.Set(s.Email, s, ttlcache.DefaultTTL)
}

func (c *SubscriptionsCache) Invalidate(email string) {
	c.cache.Delete(email)
}

func (c *SubscriptionsCache) Close() {
	c.cache.Stop()
}
