// Package cache provides the in-memory result cache for read-only API
// calls. Entries are keyed by request fingerprint, expire lazily on
// read, and the cache holds at most a fixed number of entries with
// least-recently-used eviction.
package cache

import (
	"container/list"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// FetchFunc produces a fresh payload when the cache has no usable entry.
type FetchFunc func() ([]byte, error)

type entry struct {
	key       string
	payload   []byte
	fetchedAt time.Time
	ttl       time.Duration
}

// expired reports whether the entry is past its TTL at time now.
// A zero or negative TTL never caches.
func (e *entry) expired(now time.Time) bool {
	if e.ttl <= 0 {
		return true
	}
	return now.Sub(e.fetchedAt) >= e.ttl
}

// Cache is a bounded TTL+LRU cache. All methods are safe for concurrent
// use.
type Cache struct {
	mu         sync.Mutex
	maxEntries int
	entries    map[string]*list.Element
	order      *list.List // front = most recently used

	group singleflight.Group
	now   func() time.Time
}

// New creates a Cache bounded to maxEntries.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		order:      list.New(),
		now:        time.Now,
	}
}

// Get returns the cached payload for key, or ok=false if the key is
// absent or its entry has expired. Expired entries are removed on read;
// there is no background sweeper.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	e := elem.Value.(*entry)
	if e.expired(c.now()) {
		c.removeLocked(elem)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return e.payload, true
}

// Put stores a payload under key with the given TTL, evicting the least
// recently used entry if the cache is full. A non-positive TTL stores
// nothing.
func (c *Cache) Put(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		e := elem.Value.(*entry)
		e.payload = payload
		e.fetchedAt = c.now()
		e.ttl = ttl
		c.order.MoveToFront(elem)
		return
	}

	if c.maxEntries > 0 && c.order.Len() >= c.maxEntries {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}

	elem := c.order.PushFront(&entry{
		key:       key,
		payload:   payload,
		fetchedAt: c.now(),
		ttl:       ttl,
	})
	c.entries[key] = elem
}

// Invalidate removes every entry whose key starts with prefix and
// returns how many were dropped. An empty prefix clears the cache.
func (c *Cache) Invalidate(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if len(e.key) >= len(prefix) && e.key[:len(prefix)] == prefix {
			c.removeLocked(elem)
			removed++
		}
		elem = next
	}
	return removed
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// GetOrFetch returns the cached payload for key, or calls fetch to
// produce one and stores the result. Concurrent callers for the same
// key share a single fetch; every caller gets the same payload or the
// same error. Errors are never cached.
func (c *Cache) GetOrFetch(key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	if payload, ok := c.Get(key); ok {
		return payload, nil
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have filled the entry while this
		// one waited on the flight group.
		if payload, ok := c.Get(key); ok {
			return payload, nil
		}
		payload, err := fetch()
		if err != nil {
			return nil, err
		}
		c.Put(key, payload, ttl)
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) removeLocked(elem *list.Element) {
	e := elem.Value.(*entry)
	c.order.Remove(elem)
	delete(c.entries, e.key)
}
