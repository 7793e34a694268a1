package dashboard

import (
	"sync"
	"time"
)

type cacheEntry[V any] struct {
	val     V
	expires time.Time
}

// ttlCache memoizes computed values for a fixed duration. Lookups for an
// expired or missing key run the compute function and store the result.
// Failed computes are never cached so the next lookup retries.
type ttlCache[K comparable, V any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[K]cacheEntry[V]
}

func newTTLCache[K comparable, V any](ttl time.Duration, now func() time.Time) *ttlCache[K, V] {
	if now == nil {
		now = time.Now
	}
	return &ttlCache[K, V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[K]cacheEntry[V]),
	}
}

// getOrCompute returns the cached value for key, computing and storing it
// if absent or expired. The lock is held across compute, serializing
// lookups so concurrent requests cannot duplicate an expensive fit.
func (c *ttlCache[K, V]) getOrCompute(key K, compute func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, exists := c.entries[key]; exists && c.now().Before(entry.expires) {
		return entry.val, nil
	}

	val, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}

	c.entries[key] = cacheEntry[V]{val: val, expires: c.now().Add(c.ttl)}
	return val, nil
}

// purge drops all cached entries.
func (c *ttlCache[K, V]) purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[K]cacheEntry[V])
}
