package repository

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SnapshotCache holds detached copies of untracked query results for one
// table. Writes to the table invalidate every entry.
//
// A fill is only accepted if no invalidation happened since the caller took
// its generation, so a read that raced a write never repopulates stale rows.
// A nil *SnapshotCache is valid and caches nothing.
type SnapshotCache[T any] struct {
	mu      sync.Mutex
	gen     uint64
	clone   func(T) T
	entries *lru.Cache[string, []T]
}

// NewSnapshotCache creates a cache bounded to size entries. A size of zero or
// less returns nil, which disables caching. clone copies one row so that no
// pointer is shared with callers; nil means rows are plain values.
func NewSnapshotCache[T any](size int, clone func(T) T) *SnapshotCache[T] {
	if size <= 0 {
		return nil
	}
	entries, err := lru.New[string, []T](size)
	if err != nil {
		return nil
	}
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &SnapshotCache[T]{clone: clone, entries: entries}
}

// Generation returns the token a reader must present to Put.
func (c *SnapshotCache[T]) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Get returns a copy of the cached rows for key.
func (c *SnapshotCache[T]) Get(key string) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return c.copyRows(rows), true
}

// Put stores a copy of rows under key unless the cache was invalidated after
// gen was taken.
func (c *SnapshotCache[T]) Put(key string, gen uint64, rows []T) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.entries.Add(key, c.copyRows(rows))
}

func (c *SnapshotCache[T]) copyRows(rows []T) []T {
	out := make([]T, len(rows))
	for i, row := range rows {
		out[i] = c.clone(row)
	}
	return out
}

// Invalidate drops every entry and bumps the generation.
func (c *SnapshotCache[T]) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries.Purge()
}

// len returns the number of cached result sets
func (c *SnapshotCache[T]) len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
