package pipeline

import "sync"

// resultCache memoizes successful results by request URL.
type resultCache struct {
	mu    sync.RWMutex
	items map[string]*Result
}

func newResultCache() *resultCache {
	return &resultCache{items: make(map[string]*Result)}
}

func (c *resultCache) get(url string) (*Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.items[url]
	return r, ok
}

func (c *resultCache) put(url string, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[url] = r
}
