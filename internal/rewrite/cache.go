package rewrite

import "sync"

type cacheKey struct {
	Session     string
	Instruction string
	Count       int
}

// Cache holds the last outcome per (session, instruction, count). It is
// safe for concurrent use and never persisted.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]Result
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Result)}
}

// Get returns a copy of the cached result.
func (c *Cache) Get(session, instruction string, n int) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[cacheKey{session, instruction, n}]
	if !ok {
		return Result{}, false
	}
	return r.clone(), true
}

// Put stores a copy of r.
func (c *Cache) Put(session, instruction string, n int, r Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{session, instruction, n}] = r.clone()
}

// Invalidate drops every entry belonging to session.
func (c *Cache) Invalidate(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Session == session {
			delete(c.entries, k)
		}
	}
}

// Purge drops all entries.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
