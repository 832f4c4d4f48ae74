package storage

import (
	"container/list"
	"sync"
)

// objectCache holds decoded primitives keyed by reference, honoring the
// configured CacheStrategy. It is the only mutable state shared between
// a Storage and its Clone()s (spec.md §5 "Sharing"): callers must hold mu
// for any read or write.
type objectCache struct {
	mu       sync.Mutex
	strategy CacheStrategy

	values map[cacheKey]cacheEntry
	lru    *list.List // used only when strategy.Kind == CacheBounded
	nodes  map[cacheKey]*list.Element
}

type cacheKey struct {
	number     uint32
	generation uint16
}

type cacheEntry struct {
	value interface{}
	err   error
}

func newObjectCache(strategy CacheStrategy) *objectCache {
	c := &objectCache{
		strategy: strategy,
		values:   make(map[cacheKey]cacheEntry),
	}
	if strategy.Kind == CacheBounded {
		c.lru = list.New()
		c.nodes = make(map[cacheKey]*list.Element)
	}
	return c
}

// get returns the cached value for key, if any; the bool is false on a
// cache miss, independent of whether a cached entry records an error.
func (c *objectCache) get(key cacheKey) (cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.strategy.Kind == CacheNone {
		return cacheEntry{}, false
	}
	e, ok := c.values[key]
	if ok && c.strategy.Kind == CacheBounded {
		c.lru.MoveToFront(c.nodes[key])
	}
	return e, ok
}

func (c *objectCache) set(key cacheKey, e cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.strategy.Kind == CacheNone {
		return
	}
	c.values[key] = e
	if c.strategy.Kind == CacheBounded {
		if node, ok := c.nodes[key]; ok {
			c.lru.MoveToFront(node)
		} else {
			c.nodes[key] = c.lru.PushFront(key)
		}
		limit := c.strategy.N
		if limit < 1 {
			limit = 1
		}
		for len(c.values) > limit {
			oldest := c.lru.Back()
			if oldest == nil {
				break
			}
			c.lru.Remove(oldest)
			k := oldest.Value.(cacheKey)
			delete(c.nodes, k)
			delete(c.values, k)
		}
	}
}

// invalidate removes key's cached entry, used by Update to ensure a
// stale value is never returned after the generation bumps.
func (c *objectCache) invalidate(key cacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	if c.strategy.Kind == CacheBounded {
		if node, ok := c.nodes[key]; ok {
			c.lru.Remove(node)
			delete(c.nodes, key)
		}
	}
}
