package tree

import (
	"github.com/lox/handtree/internal/treeid"
)

// Builder owns a mutable cumulative tree during ingestion. It is not safe
// for concurrent use; ingestion serializes merges through a single owner
// or reduces partial builders pairwise.
type Builder struct {
	root      *Node
	handCount int
}

// NewBuilder creates a builder with the fixed street skeleton under root.
func NewBuilder() *Builder {
	root := NewNode("root")
	for _, street := range []string{"preflop", "flop", "turn", "river"} {
		root.Child(street)
	}
	return &Builder{root: root}
}

// Street returns the mutable node for one street.
func (b *Builder) Street(name string) *Node {
	return b.root.Child(name)
}

// Root returns the mutable root. Exposed for merging; never leak it past
// Publish.
func (b *Builder) Root() *Node {
	return b.root
}

// AddHands increments the count of hands folded into this builder.
func (b *Builder) AddHands(n int) {
	b.handCount += n
}

// HandCount returns the number of hands merged so far.
func (b *Builder) HandCount() int {
	return b.handCount
}

// MergeBuilder folds another builder's tree into this one. Both builders'
// trees must be unaggregated.
func (b *Builder) MergeBuilder(other *Builder) {
	Merge(b.root, other.root)
	b.handCount += other.handCount
}

// Snapshot is an immutable, identity-tagged aggregated tree. Once
// published it is only ever read, so concurrent navigation needs no
// synchronization. Extending a data set produces a new snapshot; existing
// snapshots are never mutated.
type Snapshot struct {
	ID        string `json:"id"`
	HandCount int    `json:"hand_count"`
	Root      *Node  `json:"tree"`
}

// Publish completes the facing-all-in decision points, aggregates derived
// counts once, and returns the tree as an immutable snapshot. The builder
// must not be used again afterwards.
func (b *Builder) Publish() *Snapshot {
	CompleteFacingAllIn(b.root)
	Aggregate(b.root)
	return &Snapshot{
		ID:        treeid.Generate(),
		HandCount: b.handCount,
		Root:      b.root,
	}
}

// CompleteFacingAllIn recursively adds synthetic zero-count terminal fold
// and call children beneath any facing-all-in node missing them, so every
// facing-all-in decision point exposes both options. Idempotent.
func CompleteFacingAllIn(n *Node) {
	if n.FacingAllIn {
		if _, ok := n.Children["call"]; !ok {
			n.Children["call"] = NewSyntheticTerminal("call")
		}
		if _, ok := n.Children["fold"]; !ok {
			n.Children["fold"] = NewSyntheticTerminal("fold")
		}
	}
	for _, child := range n.Children {
		CompleteFacingAllIn(child)
	}
}
