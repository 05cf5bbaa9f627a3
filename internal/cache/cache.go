// Package cache provides a thread-safe generic cache and the named caches the
// server keeps for rendered post bodies, syntax CSS and static file hashes.
package cache

import "sync"

type Cache[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func NewCache[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// GetOrSet returns the cached value for key, computing and storing it with fn
// on a miss. fn runs under the write lock, so concurrent misses compute once.
func (c *Cache[K, V]) GetOrSet(key K, fn func() V) (V, bool) {
	if val, ok := c.Get(key); ok {
		return val, true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if val, ok := c.items[key]; ok {
		return val, true
	}
	val := fn()
	c.items[key] = val
	return val, false
}

func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]V)
}

var renderedPostCache = NewCache[string, []byte]()

// RenderedPost returns the rendered HTML for a content hash and syntax theme,
// rendering it with fn on a miss. The bool reports a cache hit.
func RenderedPost(contentHash, syntaxTheme string, fn func() []byte) ([]byte, bool) {
	return renderedPostCache.GetOrSet(contentHash+":"+syntaxTheme, fn)
}

func ClearRenderedPosts() {
	renderedPostCache.Clear()
}
