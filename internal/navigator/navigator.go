// Package navigator resolves structured paths against published tree
// snapshots. Snapshots are immutable, so resolution is lock-free; a small
// bounded cache memoizes repeated lookups across large resident trees.
package navigator

import (
	"strings"

	"github.com/lox/handtree/internal/tree"
)

// Separator joins ancestor names into composite display labels. A path
// step containing it is treated as such a label and only its final
// component is used for lookup.
const Separator = "-"

// RootSentinel is the literal first path element denoting the tree root.
const RootSentinel = "root"

// Path is an ordered list of node-name segments from the root.
type Path []string

// Key returns the lookup key for one raw step: the final component of a
// composite label, or the step itself.
func Key(step string) string {
	if i := strings.LastIndex(step, Separator); i >= 0 {
		return step[i+1:]
	}
	return step
}

// Label derives the composite display label for a path, joining every
// segment after the root sentinel.
func (p Path) Label() string {
	segments := p
	if len(segments) > 0 && segments[0] == RootSentinel {
		segments = segments[1:]
	}
	return strings.Join(segments, Separator)
}

// canonical returns the path with composite steps reduced to their lookup
// keys and the root sentinel stripped.
func (p Path) canonical() []string {
	out := make([]string, 0, len(p))
	for i, step := range p {
		if i == 0 && step == RootSentinel {
			continue
		}
		out = append(out, Key(step))
	}
	return out
}

// Resolve walks the snapshot's tree along path. The boolean result
// distinguishes absence: a lookup that fails mid-path returns (nil, false)
// and never panics or errors. Callers fall back to the nearest valid
// ancestor as policy.
func Resolve(snap *tree.Snapshot, path Path) (*tree.Node, bool) {
	if snap == nil || snap.Root == nil {
		return nil, false
	}

	current := snap.Root
	for _, key := range path.canonical() {
		child, ok := current.Lookup(key)
		if !ok {
			return nil, false
		}
		current = child
	}
	return current, true
}
