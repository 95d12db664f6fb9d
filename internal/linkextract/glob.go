package linkextract

import (
	"sync"

	"github.com/gobwas/glob"
)

// globCache compiles each include/exclude pattern into an anchored
// glob.Glob exactly once and reuses it across every page in a crawl.
// Separator '/' gives "*" no-cross-segment semantics and "**" full
// cross-segment semantics, matching §4.6's glob rules directly.
type globCache struct {
	mu       sync.Mutex
	compiled map[string]glob.Glob
}

func newGlobCache() *globCache {
	return &globCache{compiled: make(map[string]glob.Glob)}
}

func (c *globCache) compile(pattern string) (glob.Glob, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.compiled[pattern]; ok {
		return g, nil
	}

	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, err
	}
	c.compiled[pattern] = g
	return g, nil
}

func (c *globCache) matchesAny(patterns []string, pathname string) (bool, error) {
	for _, pattern := range patterns {
		g, err := c.compile(pattern)
		if err != nil {
			return false, err
		}
		if g.Match(pathname) {
			return true, nil
		}
	}
	return false, nil
}
