// Package lru implements a generic, thread-safe LRU cache with per-entry TTL.
//
// Time complexity: O(1) for Get, Put, Delete, Len.
// Space complexity: O(n) where n is capacity.
//
// Implementation uses a hash map for O(1) key lookup combined with
// a doubly linked list for O(1) eviction ordering. Every entry carries
// an expiry deadline; expired entries are treated as misses and reaped
// before capacity eviction, so eviction order is TTL-then-LRU.
package lru

import (
	"sync"
	"time"
)

// node is a doubly linked list node holding a key-value pair.
type node[K comparable, V any] struct {
	key       K
	val       V
	expiresAt time.Time
	prev      *node[K, V]
	next      *node[K, V]
}

func (n *node[K, V]) expired(now time.Time) bool {
	return now.After(n.expiresAt)
}

// Cache is a generic, thread-safe LRU cache with a fixed TTL.
// K must be comparable (map key constraint), V can be any type.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[K]*node[K, V]
	head     *node[K, V] // most recently used (sentinel)
	tail     *node[K, V] // least recently used (sentinel)

	now func() time.Time // injectable clock for tests
}

// New creates an LRU cache with the given capacity and TTL.
// Panics if capacity < 1 or ttl <= 0.
func New[K comparable, V any](capacity int, ttl time.Duration) *Cache[K, V] {
	if capacity < 1 {
		panic("lru: capacity must be >= 1")
	}
	if ttl <= 0 {
		panic("lru: ttl must be positive")
	}

	head := &node[K, V]{}
	tail := &node[K, V]{}
	head.next = tail
	tail.prev = head

	return &Cache[K, V]{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[K]*node[K, V], capacity),
		head:     head,
		tail:     tail,
		now:      time.Now,
	}
}

// Get retrieves a value by key. Returns the value and true if found and
// still within its TTL, or the zero value and false otherwise. An expired
// entry is removed on access. O(1).
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	if n.expired(c.now()) {
		c.remove(n)
		delete(c.items, key)
		var zero V
		return zero, false
	}

	c.moveToFront(n)
	return n.val, true
}

// Put inserts or updates a key-value pair, resetting its TTL. If the
// cache is at capacity, expired entries are reaped first; if none are
// expired, the least recently used entry is evicted. Amortized O(1).
// Returns the evicted key and true if a capacity eviction occurred.
func (c *Cache[K, V]) Put(key K, val V) (K, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(c.ttl)

	// Update existing
	if n, ok := c.items[key]; ok {
		n.val = val
		n.expiresAt = deadline
		c.moveToFront(n)
		var zero K
		return zero, false
	}

	var evictedKey K
	evicted := false
	if len(c.items) >= c.capacity {
		if c.reapExpired() == 0 {
			victim := c.tail.prev
			c.remove(victim)
			delete(c.items, victim.key)
			evictedKey = victim.key
			evicted = true
		}
	}

	n := &node[K, V]{key: key, val: val, expiresAt: deadline}
	c.items[key] = n
	c.pushFront(n)

	return evictedKey, evicted
}

// Delete removes a key from the cache. Returns true if the key existed. O(1).
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.items[key]
	if !ok {
		return false
	}

	c.remove(n)
	delete(c.items, key)
	return true
}

// Len returns the number of unexpired entries in the cache. O(n).
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0
	for cur := c.head.next; cur != c.tail; cur = cur.next {
		if !cur.expired(now) {
			count++
		}
	}
	return count
}

// Keys returns unexpired keys in order from most to least recently used. O(n).
func (c *Cache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	keys := make([]K, 0, len(c.items))
	for cur := c.head.next; cur != c.tail; cur = cur.next {
		if !cur.expired(now) {
			keys = append(keys, cur.key)
		}
	}
	return keys
}

// Clear removes all entries from the cache. O(n).
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.head.next = c.tail
	c.tail.prev = c.head
	c.items = make(map[K]*node[K, V], c.capacity)
}

// --- internal operations (caller must hold lock) ---

// reapExpired removes all expired entries, scanning from the LRU end.
// Returns the number of entries removed.
func (c *Cache[K, V]) reapExpired() int {
	now := c.now()
	removed := 0
	for cur := c.tail.prev; cur != c.head; {
		prev := cur.prev
		if cur.expired(now) {
			c.remove(cur)
			delete(c.items, cur.key)
			removed++
		}
		cur = prev
	}
	return removed
}

// remove detaches a node from the list.
func (c *Cache[K, V]) remove(n *node[K, V]) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}

// pushFront inserts a node right after head sentinel.
func (c *Cache[K, V]) pushFront(n *node[K, V]) {
	n.next = c.head.next
	n.prev = c.head
	c.head.next.prev = n
	c.head.next = n
}

// moveToFront detaches and reinserts a node at front.
func (c *Cache[K, V]) moveToFront(n *node[K, V]) {
	c.remove(n)
	c.pushFront(n)
}
