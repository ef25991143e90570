package filters

import "sync"

// cacheEntry is a memoized parse result.
type cacheEntry struct {
	filter Filter
	err    error
}

// Cache memoizes parse results keyed by the raw filter text.  Parsing is
// deterministic, so a cache can be shared between any number of lists.  The
// cache is owned by the caller, there is no process-wide instance.
type Cache struct {
	// mu protects entries.
	mu sync.RWMutex

	// entries maps filter text to its parse result.
	entries map[string]cacheEntry
}

// NewCache creates a new empty parse cache.
func NewCache() (c *Cache) {
	return &Cache{
		entries: map[string]cacheEntry{},
	}
}

// Parse returns the memoized result for text, parsing and storing it on the
// first call.
func (c *Cache) Parse(text string) (f Filter, err error) {
	c.mu.RLock()
	e, ok := c.entries[text]
	c.mu.RUnlock()

	if ok {
		return e.filter, e.err
	}

	f, err = ParseFilter(text)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[text] = cacheEntry{filter: f, err: err}

	return f, err
}

// Len returns the number of memoized entries.
func (c *Cache) Len() (n int) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
