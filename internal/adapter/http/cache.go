package adapthttp

import "sync"

// viewCache stores rendered listing responses keyed by view path. A
// successful mutation marks the affected views stale so the next read
// recomputes them. Each path carries a generation counter bumped on
// invalidation: a reader records the generation before computing a body and
// the write is dropped if an invalidation landed in between, so a mutation
// can never be hidden behind a concurrently computed stale body.
type viewCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	gens    map[string]uint64
}

func newViewCache() *viewCache {
	return &viewCache{
		entries: make(map[string][]byte),
		gens:    make(map[string]uint64),
	}
}

// Get returns the cached body for a view path, if fresh.
func (c *viewCache) Get(path string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[path]
	return body, ok
}

// Generation returns the current invalidation generation for a view path.
// Record it before computing a body and pass it to Set.
func (c *viewCache) Generation(path string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gens[path]
}

// Set stores the rendered body for a view path, unless the path was
// invalidated after gen was observed.
func (c *viewCache) Set(path string, gen uint64, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[path] != gen {
		return
	}
	c.entries[path] = body
}

// Invalidate marks the given view paths stale.
func (c *viewCache) Invalidate(paths ...string) {
	if len(paths) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		delete(c.entries, p)
		c.gens[p]++
	}
}
