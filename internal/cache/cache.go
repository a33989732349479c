package cache

import (
	"sync"
	"time"
)

// Cache is a single-slot TTL cache. Expiry is checked lazily on read;
// a stale entry simply stops being returned until the next Put
// overwrites it. Callers must only Put successfully assembled values —
// the cache has no notion of success or failure.
type Cache[T any] struct {
	mu       sync.Mutex
	value    T
	storedAt time.Time
	filled   bool

	ttl time.Duration
	now func() time.Time
}

// New creates an empty cache with the given time-to-live.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value and its age if the entry is still within
// its TTL. ok is false when the slot is empty or expired.
func (c *Cache[T]) Get() (value T, age time.Duration, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.filled {
		return value, 0, false
	}

	age = c.now().Sub(c.storedAt)
	if age >= c.ttl {
		return value, 0, false
	}
	return c.value, age, true
}

// Put unconditionally overwrites the slot and resets its age.
func (c *Cache[T]) Put(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.value = v
	c.storedAt = c.now()
	c.filled = true
}
