package storage

import (
	"sync"

	"github.com/go-pdfkit/pdfcore/objstm"
)

// streamCache caches decoded object-stream containers by their
// container object number, independent of the decoded-object cache
// (spec.md §4.4: "decoded-object cache, and decoded-stream cache").
type streamCache struct {
	mu       sync.Mutex
	strategy CacheStrategy
	entries  map[uint32]streamCacheEntry
}

type streamCacheEntry struct {
	container *objstm.Container
	err       error
}

func newStreamCache(strategy CacheStrategy) *streamCache {
	return &streamCache{strategy: strategy, entries: make(map[uint32]streamCacheEntry)}
}

func (c *streamCache) get(containerNum uint32) (streamCacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.strategy.Kind == CacheNone {
		return streamCacheEntry{}, false
	}
	e, ok := c.entries[containerNum]
	return e, ok
}

func (c *streamCache) set(containerNum uint32, e streamCacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.strategy.Kind == CacheNone {
		return
	}
	c.entries[containerNum] = e
}
