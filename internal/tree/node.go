// Package tree implements the cumulative decision tree: node structure,
// merging of per-hand sequences, frequency aggregation and immutable
// published snapshots.
//
// A tree is built in two phases. During ingestion a mutable Builder owns
// the root exclusively and folds per-hand sequences into it. Publish then
// aggregates derived counts once and wraps the result in an identity-tagged
// Snapshot that is only ever read, so navigation needs no locking.
package tree

import "github.com/lox/handtree/internal/classifier"

// Node is one decision point in the tree. Node names alternate between
// positions ("BTN/SB", "BB") and action buckets ("mid_raise_preflop") as
// depth increases beneath a street.
//
// All maps are always non-nil so merging and aggregation never need
// existence checks.
type Node struct {
	Name     string           `json:"name"`
	Children map[string]*Node `json:"children"`

	// Observed action counts at this decision point, total and
	// hero-only. Non-hero counts are derived during aggregation.
	Actions     map[classifier.Bucket]int `json:"actions"`
	HeroActions map[classifier.Bucket]int `json:"hero_actions"`

	// Hole-card category tallies for the actors seen at this node,
	// split hero / non-hero. Unknown hands are never recorded.
	HoleCards     map[string]int `json:"hole_cards"`
	HeroHoleCards map[string]int `json:"hero_hole_cards"`

	// Synthetic marks a node inserted by the facing-all-in completion
	// pass rather than observed in data. Terminal marks the end of a
	// branch. FacingAllIn marks a decision point whose only legal
	// continuations are fold and call.
	Synthetic   bool `json:"is_synthetic,omitempty"`
	Terminal    bool `json:"is_terminal,omitempty"`
	FacingAllIn bool `json:"facing_all_in,omitempty"`

	// Derived fields, computed exactly once by Aggregate.
	TotalActionCount   int                           `json:"total_action_count"`
	NonHeroActionCount int                           `json:"non_hero_action_count"`
	PercentagesTotal   map[classifier.Bucket]float64 `json:"action_percentages_total,omitempty"`
	PercentagesNonHero map[classifier.Bucket]float64 `json:"action_percentages_non_hero,omitempty"`
	TotalCount         int                           `json:"total_count"`
	NonHeroCount       int                           `json:"non_hero_count"`
}

// NewNode creates a node with the fixed schema: every map present, empty.
func NewNode(name string) *Node {
	return &Node{
		Name:          name,
		Children:      make(map[string]*Node),
		Actions:       make(map[classifier.Bucket]int),
		HeroActions:   make(map[classifier.Bucket]int),
		HoleCards:     make(map[string]int),
		HeroHoleCards: make(map[string]int),
	}
}

// NewSyntheticTerminal creates a zero-count synthetic terminal node used by
// the facing-all-in completion pass.
func NewSyntheticTerminal(name string) *Node {
	n := NewNode(name)
	n.Synthetic = true
	n.Terminal = true
	return n
}

// Child returns the named child, creating it on first visit.
func (n *Node) Child(name string) *Node {
	if child, ok := n.Children[name]; ok {
		return child
	}
	child := NewNode(name)
	n.Children[name] = child
	return child
}

// Lookup returns the named child without creating it.
func (n *Node) Lookup(name string) (*Node, bool) {
	child, ok := n.Children[name]
	return child, ok
}

// AddAction records one observed action at this decision point.
func (n *Node) AddAction(bucket classifier.Bucket, isHero bool) {
	n.Actions[bucket]++
	if isHero {
		n.HeroActions[bucket]++
	}
}

// AddHoleCategory records the actor's starting-hand category.
func (n *Node) AddHoleCategory(category string, isHero bool) {
	if isHero {
		n.HeroHoleCards[category]++
	} else {
		n.HoleCards[category]++
	}
}

// Walk visits the node and all descendants depth-first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
