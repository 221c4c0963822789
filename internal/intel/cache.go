package intel

import (
	"sync"

	"revintel/internal/logging"
	"revintel/internal/types"
)

// streamKey identifies one cached stream result. Key cardinality is bounded by
// the taxonomy (5 streams x 3 ICPs x 5 use cases), so entries are never
// evicted automatically; Clear exists for runs that must not share state.
type streamKey struct {
	stream  string
	icp     types.ICP
	useCase types.UseCase
}

// StreamCache deduplicates repeated retrieval queries for the same normalized
// context within the life of one gatherer instance. It is never persisted.
type StreamCache struct {
	mu      sync.RWMutex
	entries map[streamKey]any
}

// NewStreamCache creates an empty cache.
func NewStreamCache() *StreamCache {
	return &StreamCache{entries: make(map[streamKey]any)}
}

// Get retrieves a cached stream result.
func (c *StreamCache) Get(stream string, icp types.ICP, useCase types.UseCase) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[streamKey{stream, icp, useCase}]
	return v, ok
}

// Set stores a stream result. Overwriting an existing entry with an equal
// value is harmless; the mutex keeps the map correct under parallel streams.
func (c *StreamCache) Set(stream string, icp types.ICP, useCase types.UseCase, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[streamKey{stream, icp, useCase}] = value
}

// Clear removes all entries.
func (c *StreamCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[streamKey]any)
	logging.Cache("cache cleared: %d entries removed", n)
}

// Size returns the number of cached entries.
func (c *StreamCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
