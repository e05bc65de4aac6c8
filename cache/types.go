// Package cache provides an LRU cache for query results.
//
// Entries are keyed by the normalized query, the requested k, the distance
// semantics and the corpus version the result was computed against. Because
// the corpus is append-only and its version is its size, a result cached for
// an older version can never be returned for a newer one.
package cache

import (
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/hupe1980/strknn/matcher"
)

// Key identifies a cached query result.
type Key struct {
	// Query is the canonical token form of the query text.
	Query    string
	K        int
	Mode     matcher.Mode
	Strategy matcher.SetStrategy
	// Version is the corpus snapshot version the result belongs to.
	Version uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// ResultCache is a fixed-size LRU of query results. It is safe for concurrent
// use. A nil *ResultCache is a valid, always-missing cache.
type ResultCache[V any] struct {
	lru    *lru.Cache[Key, []V]
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a cache holding up to size results.
// A size <= 0 returns a nil (disabled) cache.
func New[V any](size int) (*ResultCache[V], error) {
	if size <= 0 {
		return nil, nil
	}

	l, err := lru.New[Key, []V](size)
	if err != nil {
		return nil, err
	}
	return &ResultCache[V]{lru: l}, nil
}

// Get returns a copy of the cached result for key.
func (c *ResultCache[V]) Get(key Key) ([]V, bool) {
	if c == nil {
		return nil, false
	}

	v, ok := c.lru.Get(key)
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return slices.Clone(v), true
}

// Add stores a copy of v under key.
func (c *ResultCache[V]) Add(key Key, v []V) {
	if c == nil {
		return
	}
	c.lru.Add(key, slices.Clone(v))
}

// Purge drops all entries.
func (c *ResultCache[V]) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}

// Len returns the number of cached results.
func (c *ResultCache[V]) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Stats returns hit/miss counters.
func (c *ResultCache[V]) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Len:    c.lru.Len(),
	}
}
