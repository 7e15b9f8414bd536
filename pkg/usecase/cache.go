package usecase

import (
	"sync"
	"time"
)

type cachedValue[V any] struct {
	value     V
	expiresAt time.Time
}

// ttlCache is an in-process read-through cache. Entries expire after ttl.
type ttlCache[K comparable, V any] struct {
	ttl   time.Duration
	cache sync.Map
}

func newTTLCache[K comparable, V any](ttl time.Duration) *ttlCache[K, V] {
	return &ttlCache[K, V]{ttl: ttl}
}

func (c *ttlCache[K, V]) get(key K) (V, bool) {
	var zero V
	val, ok := c.cache.Load(key)
	if !ok {
		return zero, false
	}

	cached := val.(*cachedValue[V])
	if time.Now().After(cached.expiresAt) {
		c.cache.Delete(key)
		return zero, false
	}

	return cached.value, true
}

func (c *ttlCache[K, V]) set(key K, value V) {
	if c.ttl <= 0 {
		return
	}
	c.cache.Store(key, &cachedValue[V]{
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
}

func (c *ttlCache[K, V]) remove(key K) {
	c.cache.Delete(key)
}
