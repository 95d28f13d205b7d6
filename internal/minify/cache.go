package minify

import (
	"crypto/sha256"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache memoizes a Minifier by content digest. Incremental rebuilds mostly
// re-minify unchanged files, so hits are the common case.
type Cache struct {
	next    Minifier
	entries *lru.Cache[[sha256.Size]byte, string]
}

// NewCache wraps next with an LRU cache holding up to size results. A nil next
// uses Default.
func NewCache(next Minifier, size int) (*Cache, error) {
	if next == nil {
		next = Default
	}
	entries, err := lru.New[[sha256.Size]byte, string](size)
	if err != nil {
		return nil, fmt.Errorf("minify cache: %w", err)
	}
	return &Cache{next: next, entries: entries}, nil
}

// Minify returns the cached result for content or computes and stores it.
// Failed results are not cached.
func (c *Cache) Minify(content string) (string, error) {
	key := sha256.Sum256([]byte(content))
	if out, ok := c.entries.Get(key); ok {
		return out, nil
	}
	out, err := c.next.Minify(content)
	if err != nil {
		return content, err
	}
	c.entries.Add(key, out)
	return out, nil
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}
