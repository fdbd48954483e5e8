package store

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is one server-mirror slice of the store: the last fetched value,
// a loading flag and an error message. A fetch replaces the content
// wholesale, keyed by the filter that produced it; there is no merge and
// no TTL — last write wins. Concurrent fetches for the same key collapse
// into one request.
type Cache[T any] struct {
	mu      sync.RWMutex
	sfg     singleflight.Group
	value   *T
	key     string
	latest  string
	loading bool
	errMsg  string
}

func NewCache[T any]() *Cache[T] {
	return &Cache[T]{}
}

// Fetch runs fn unless an identical fetch is already in flight. The
// loading flag goes up before the request and down on completion, success
// or failure; starting a new request clears the previous error. A fetch
// whose key has been superseded by a newer one still returns its result
// to the caller, but never writes it to state.
func (c *Cache[T]) Fetch(ctx context.Context, key string, fn func(ctx context.Context) (*T, error)) (*T, error) {
	c.mu.Lock()
	c.latest = key
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		return fn(ctx)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.latest != key {
		// A newer fetch owns this slice now; the late result is dropped.
		if err != nil {
			return nil, err
		}
		return v.(*T), nil
	}
	c.loading = false
	if err != nil {
		c.errMsg = err.Error()
		return nil, err
	}
	c.value = v.(*T)
	c.key = key
	return c.value, nil
}

// Snapshot returns the cached value with its flags, for rendering.
func (c *Cache[T]) Snapshot() (value *T, loading bool, errMsg string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, c.loading, c.errMsg
}

// Key is the filter key the current value was fetched with.
func (c *Cache[T]) Key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.key
}

// Invalidate drops the cached value, forcing the next Fetch to hit the
// network even for the same key.
func (c *Cache[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = nil
	c.key = ""
	c.errMsg = ""
}
