package tree

import "sort"

// SortedChildren returns a node's children ordered by frequency descending.
// Synthetic children always sort last regardless of count; among peers,
// ties break by name so ordering is deterministic. When excludeHero is set
// the non-hero counts drive the ordering.
//
// The full child list is always returned; any "top N" truncation is a
// presentation-layer policy.
func SortedChildren(n *Node, excludeHero bool) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, child := range n.Children {
		children = append(children, child)
	}

	count := func(c *Node) int {
		if c.Synthetic {
			return -1
		}
		if excludeHero {
			return c.NonHeroCount
		}
		return c.TotalCount
	}

	sort.Slice(children, func(i, j int) bool {
		ci, cj := count(children[i]), count(children[j])
		if ci != cj {
			return ci > cj
		}
		return children[i].Name < children[j].Name
	})

	return children
}
