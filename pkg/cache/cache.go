package cache

import (
	"context"
	"sync"
	"time"
)

// Cache stores run reports and the per-date run lock.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, val string, ttl time.Duration) error
	// SetNX sets key only if it is absent and reports whether it did.
	SetNX(ctx context.Context, key string, val string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type InMemoryCache struct {
	mu   sync.Mutex
	data map[string]item
	now  func() time.Time
}

type item struct {
	val string
	exp time.Time
}

func NewInMemory() *InMemoryCache { return &InMemoryCache{data: make(map[string]item), now: time.Now} }

// lookup returns the live entry for key, evicting it if expired. Caller holds mu.
func (c *InMemoryCache) lookup(key string) (item, bool) {
	it, ok := c.data[key]
	if !ok {
		return item{}, false
	}
	if !it.exp.IsZero() && c.now().After(it.exp) {
		delete(c.data, key)
		return item{}, false
	}
	return it, true
}

func (c *InMemoryCache) expiry(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return c.now().Add(ttl)
}

func (c *InMemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.lookup(key)
	return it.val, ok
}

func (c *InMemoryCache) Set(_ context.Context, key string, val string, ttl time.Duration) error {
	c.mu.Lock()
	c.data[key] = item{val: val, exp: c.expiry(ttl)}
	c.mu.Unlock()
	return nil
}

func (c *InMemoryCache) SetNX(_ context.Context, key string, val string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.lookup(key); ok {
		return false, nil
	}
	c.data[key] = item{val: val, exp: c.expiry(ttl)}
	return true, nil
}

func (c *InMemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
	return nil
}
