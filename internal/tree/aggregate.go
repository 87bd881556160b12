package tree

import "github.com/lox/handtree/internal/classifier"

// Aggregate computes every derived field in one post-order pass. It runs
// exactly once, after all hands are merged and before the tree is
// published; navigation never triggers recomputation.
//
// Returns the node's cumulative (total, nonHero) counts. Synthetic
// children never contribute to their parent's visible totals.
func Aggregate(n *Node) (total, nonHero int) {
	actionTotal := 0
	for _, count := range n.Actions {
		actionTotal += count
	}

	nonHeroTotal := 0
	for bucket, count := range n.Actions {
		nh := count - n.HeroActions[bucket]
		if nh < 0 {
			nh = 0
		}
		nonHeroTotal += nh
	}

	n.TotalActionCount = actionTotal
	n.NonHeroActionCount = nonHeroTotal

	if actionTotal > 0 {
		n.PercentagesTotal = make(map[classifier.Bucket]float64, len(n.Actions))
	}
	for bucket, count := range n.Actions {
		if count > 0 {
			n.PercentagesTotal[bucket] = float64(count) / float64(actionTotal) * 100
		}
	}

	if nonHeroTotal > 0 {
		n.PercentagesNonHero = make(map[classifier.Bucket]float64, len(n.Actions))
		for bucket, count := range n.Actions {
			nh := count - n.HeroActions[bucket]
			if nh > 0 {
				n.PercentagesNonHero[bucket] = float64(nh) / float64(nonHeroTotal) * 100
			}
		}
	}

	total = actionTotal
	nonHero = nonHeroTotal
	for _, child := range n.Children {
		childTotal, childNonHero := Aggregate(child)
		if !child.Synthetic {
			total += childTotal
			nonHero += childNonHero
		}
	}

	n.TotalCount = total
	n.NonHeroCount = nonHero
	return total, nonHero
}
