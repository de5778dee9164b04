// Package cache provides a size-bounded LRU cache with per-entry TTL.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRU is a cache with TTL and size-based eviction. Expired entries are
// dropped lazily when touched or by CleanExpired.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
	onEvict func(key string, value T)
	sliding bool
}

type entry[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// Option configures an LRU.
type Option[T any] func(*LRU[T])

// WithClock replaces time.Now, for tests.
func WithClock[T any](now func() time.Time) Option[T] {
	return func(c *LRU[T]) { c.now = now }
}

// WithEvictHook is called, under the cache lock, for every entry removed by
// expiry, capacity or Delete.
func WithEvictHook[T any](fn func(key string, value T)) Option[T] {
	return func(c *LRU[T]) { c.onEvict = fn }
}

// WithSlidingExpiry restarts an entry's TTL on every hit, so entries expire
// after ttl of disuse rather than ttl after they were stored.
func WithSlidingExpiry[T any]() Option[T] {
	return func(c *LRU[T]) { c.sliding = true }
}

// NewLRU creates a cache holding at most maxSize entries for ttl each.
func NewLRU[T any](maxSize int, ttl time.Duration, opts ...Option[T]) *LRU[T] {
	c := &LRU[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value and marks it most recently used. With sliding
// expiry the hit also restarts its TTL.
func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}

	item := elem.Value.(*entry[T])
	if c.now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.touch(elem, item)
	return item.data, true
}

// Set stores a value with a fresh TTL, evicting the least recently used
// entry when over capacity.
func (c *LRU[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &entry[T]{key: key, data: data, expiresAt: c.now().Add(c.ttl)}

	if elem, ok := c.items[key]; ok {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	c.items[key] = c.lru.PushFront(item)
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

// GetOrSet returns the live value for key, or stores and returns create().
// The second result reports whether the value already existed.
func (c *LRU[T]) GetOrSet(key string, create func() T) (T, bool) {
	if v, ok := c.Get(key); ok {
		return v, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		if item := elem.Value.(*entry[T]); !c.now().After(item.expiresAt) {
			c.touch(elem, item)
			return item.data, true
		}
		c.removeElement(elem)
	}

	v := create()
	c.items[key] = c.lru.PushFront(&entry[T]{key: key, data: v, expiresAt: c.now().Add(c.ttl)})
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
	return v, false
}

// Delete removes a key from the cache.
func (c *LRU[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

func (c *LRU[T]) touch(elem *list.Element, item *entry[T]) {
	c.lru.MoveToFront(elem)
	if c.sliding {
		item.expiresAt = c.now().Add(c.ttl)
	}
}

func (c *LRU[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*entry[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
	if c.onEvict != nil {
		c.onEvict(item.key, item.data)
	}
}

// CleanExpired removes all expired entries and returns how many it removed.
func (c *LRU[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var expired []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*entry[T]).expiresAt) {
			expired = append(expired, elem)
		}
	}
	for _, elem := range expired {
		c.removeElement(elem)
	}
	return len(expired)
}

// Size returns the number of entries, including expired ones not yet swept.
func (c *LRU[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
