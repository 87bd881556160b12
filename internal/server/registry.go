package server

import (
	"sort"
	"sync"

	"github.com/lox/handtree/internal/navigator"
	"github.com/lox/handtree/internal/tree"
)

// Registry holds the published snapshots available for querying. Snapshots
// are immutable, so reads take only the registry lock, never a per-tree
// lock. The navigator cache is owned here and cleared whenever a snapshot
// is unloaded so no memoized entry can outlive its tree.
type Registry struct {
	mu        sync.RWMutex
	snapshots map[string]*tree.Snapshot
	cache     *navigator.Cache
}

// NewRegistry creates a registry backed by the given lookup cache.
func NewRegistry(cache *navigator.Cache) *Registry {
	return &Registry{
		snapshots: make(map[string]*tree.Snapshot),
		cache:     cache,
	}
}

// Add makes a snapshot available for querying.
func (r *Registry) Add(snap *tree.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[snap.ID] = snap
}

// Get returns a snapshot by ID.
func (r *Registry) Get(id string) (*tree.Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap, ok := r.snapshots[id]
	return snap, ok
}

// Remove unloads a snapshot and drops all memoized lookups.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.snapshots, id)
	r.mu.Unlock()
	r.cache.Clear()
}

// Resolve looks up a path in a snapshot through the shared cache.
func (r *Registry) Resolve(snap *tree.Snapshot, path navigator.Path) (*tree.Node, bool) {
	return r.cache.Resolve(snap, path)
}

// List describes the resident snapshots in stable order.
func (r *Registry) List() []TreeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]TreeInfo, 0, len(r.snapshots))
	for _, snap := range r.snapshots {
		infos = append(infos, TreeInfo{ID: snap.ID, HandCount: snap.HandCount})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
