// internal/cache/lru.go
//
// Small, mutex-guarded LRU shared by the view engine (parsed template sets)
// and the resource layer (resolved resources keyed by path).
//
// Notes
// -----
// • Safe for concurrent use.  Every method takes the single mutex, which is
//   fine for the few-thousand-entry sets we keep.
// • Oxford commas, two spaces after periods.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a least-recently-used cache with a fixed capacity.
type LRU[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	ll   *list.List
	dict map[K]*list.Element
}

type pair[K comparable, V any] struct {
	key K
	val V
}

// New returns an LRU with the given capacity.  Panics on capacity < 1.
func New[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	return &LRU[K, V]{
		cap:  capacity,
		ll:   list.New(),
		dict: make(map[K]*list.Element, capacity),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		c.ll.MoveToFront(ele)
		return ele.Value.(pair[K, V]).val, true
	}
	return val, false
}

// Add inserts or updates a value.  The oldest entry is dropped when the
// cache grows past capacity.
func (c *LRU[K, V]) Add(key K, val V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ele, hit := c.dict[key]; hit {
		ele.Value = pair[K, V]{key, val}
		c.ll.MoveToFront(ele)
		return
	}
	c.dict[key] = c.ll.PushFront(pair[K, V]{key, val})
	if c.ll.Len() > c.cap {
		last := c.ll.Back()
		c.ll.Remove(last)
		delete(c.dict, last.Value.(pair[K, V]).key)
	}
}

// Remove drops key if present and reports whether it was cached.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, hit := c.dict[key]
	if !hit {
		return false
	}
	c.ll.Remove(ele)
	delete(c.dict, key)
	return true
}

// Purge empties the cache.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	c.ll.Init()
	c.dict = make(map[K]*list.Element, c.cap)
	c.mu.Unlock()
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}
