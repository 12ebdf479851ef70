package uniqueness

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// Cached is a Checker that remembers lookups for a short time, so that a
// field rechecked on every debounced change does not hit the backend each
// time. Failed lookups are not cached.
type Cached struct {
	next  Checker
	cache *cache.Cache
}

// NewCached wraps next with a cache whose entries live for ttl.
func NewCached(next Checker, ttl time.Duration) *Cached {
	return &Cached{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *Cached) Taken(ctx context.Context, namespace, value string) (bool, error) {
	key := cacheKey(namespace, value)
	if taken, ok := c.cache.Get(key); ok {
		return taken.(bool), nil
	}

	taken, err := c.next.Taken(ctx, namespace, value)
	if err != nil {
		return false, err
	}
	c.cache.SetDefault(key, taken)
	return taken, nil
}

// Forget drops the cached lookup of value, e.g. after reserving it.
func (c *Cached) Forget(namespace, value string) {
	c.cache.Delete(cacheKey(namespace, value))
}

func cacheKey(namespace, value string) string {
	return namespace + "\x00" + value
}
