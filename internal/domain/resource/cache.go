// Package resource caches backend resource handles by the parameters that
// define them.
package resource

import "math"

// Handle identifies a backend resource (image, font, audio sample, tile).
// Its value carries no meaning beyond identity.
type Handle uint32

// Invalid is returned when the backend could not provide a resource.
// Handle 0 is a valid handle (the default font).
const Invalid Handle = math.MaxUint32

// Valid reports whether h refers to a resource
func (h Handle) Valid() bool {
	return h != Invalid
}

// Cache maps keys to handles and calls a loader only for unseen keys.
//
// Entries are never evicted. A loader result of Invalid is stored like any
// other, so a failed load is not attempted again.
// Cache is not safe for concurrent use.
type Cache[K comparable] struct {
	entries map[K]Handle
}

// NewCache creates an empty cache
func NewCache[K comparable]() *Cache[K] {
	return &Cache[K]{entries: make(map[K]Handle)}
}

// Get returns the handle stored for key, calling load to obtain it the
// first time.
func (c *Cache[K]) Get(key K, load func() Handle) Handle {
	if h, ok := c.entries[key]; ok {
		return h
	}
	h := load()
	c.entries[key] = h
	return h
}

// Len returns the number of cached entries
func (c *Cache[K]) Len() int {
	return len(c.entries)
}
