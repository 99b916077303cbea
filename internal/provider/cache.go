package provider

import "sync"

// Cache keeps built shapes and their normals by request key.
type Cache struct {
	shapes map[string]Published
	mu     sync.Mutex

	hits   int
	misses int
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		shapes: make(map[string]Published),
	}
}

// Get returns the shape built for key.
func (c *Cache) Get(key string) (Published, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.shapes[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return s, ok
}

// Set stores a built shape.
func (c *Cache) Set(key string, p Published) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shapes[key] = p
}

// Len returns the number of cached shapes.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.shapes)
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
