package navigator

import (
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/handtree/internal/tree"
)

// DefaultCacheCapacity bounds the memo table. Lookups are cheap; the cache
// exists to keep hot query paths off deep trees, so it never needs to be
// large.
const DefaultCacheCapacity = 1024

type cacheEntry struct {
	node     *tree.Node
	found    bool
	lastUsed time.Time
}

// Cache memoizes Resolve results keyed by snapshot identity and canonical
// path. Snapshot IDs are unique per publication, so entries can never go
// stale; they are only evicted for space, least recently used first.
//
// The cache is owned by whoever hosts the snapshots and injected where
// needed. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	clock    quartz.Clock
	entries  map[string]*cacheEntry
}

// NewCache creates a cache holding at most capacity entries. A
// non-positive capacity selects DefaultCacheCapacity. The clock is
// injectable for tests.
func NewCache(capacity int, clock quartz.Clock) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Cache{
		capacity: capacity,
		clock:    clock,
		entries:  make(map[string]*cacheEntry, capacity),
	}
}

// Resolve behaves like the package-level Resolve but memoizes the result,
// including negative results, per (snapshot, path).
func (c *Cache) Resolve(snap *tree.Snapshot, path Path) (*tree.Node, bool) {
	if snap == nil {
		return nil, false
	}
	key := snap.ID + "\x00" + strings.Join(path.canonical(), "\x00")

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.lastUsed = c.clock.Now()
		c.mu.Unlock()
		return e.node, e.found
	}
	c.mu.Unlock()

	node, found := Resolve(snap, path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.entries) >= c.capacity {
			c.evictOldest()
		}
		c.entries[key] = &cacheEntry{node: node, found: found, lastUsed: c.clock.Now()}
	}
	return node, found
}

// evictOldest removes the least recently used entry. Called with mu held.
func (c *Cache) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, e := range c.entries {
		if first || e.lastUsed.Before(oldest) {
			oldestKey, oldest = key, e.lastUsed
			first = false
		}
	}
	if !first {
		delete(c.entries, oldestKey)
	}
}

// Clear discards every memoized entry, typically after unloading
// snapshots.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry, c.capacity)
}

// Len reports the number of memoized entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
