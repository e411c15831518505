package semexpr

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 1024

// Cache memoises parsed expressions by their raw string. Parsing is
// deterministic so a cached value is interchangeable with a fresh parse.
type Cache struct {
	entries *lru.Cache[string, Expression]
}

// NewCache builds a cache holding at most size expressions.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, Expression](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Cache{entries: entries}
}

// Parse returns the cached expression or parses and stores it. Failures are
// not cached.
func (c *Cache) Parse(expr string) (Expression, error) {
	if c == nil {
		return ParseExpression(expr)
	}
	if parsed, ok := c.entries.Get(expr); ok {
		return parsed, nil
	}
	parsed, err := ParseExpression(expr)
	if err != nil {
		return Expression{}, err
	}
	c.entries.Add(expr, parsed)
	return parsed, nil
}

// Len reports the number of cached expressions.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached expression.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.entries.Purge()
}
