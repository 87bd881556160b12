package tree

// Merge folds src into dst, matching nodes by name at each depth and
// summing every count. Merging is associative and commutative over hand
// order: merging N hands in any permutation, or pairwise-merging
// independently built partial trees, yields identical counts everywhere.
func Merge(dst, src *Node) {
	for bucket, count := range src.Actions {
		dst.Actions[bucket] += count
	}
	for bucket, count := range src.HeroActions {
		dst.HeroActions[bucket] += count
	}
	for category, count := range src.HoleCards {
		dst.HoleCards[category] += count
	}
	for category, count := range src.HeroHoleCards {
		dst.HeroHoleCards[category] += count
	}

	dst.Terminal = dst.Terminal || src.Terminal
	dst.FacingAllIn = dst.FacingAllIn || src.FacingAllIn

	// A node is synthetic only while every contribution to it is
	// synthetic; one real observation makes it real.
	dst.Synthetic = dst.Synthetic && src.Synthetic

	for name, srcChild := range src.Children {
		dstChild, ok := dst.Children[name]
		if !ok {
			dstChild = NewNode(name)
			dstChild.Synthetic = srcChild.Synthetic
			dst.Children[name] = dstChild
		}
		Merge(dstChild, srcChild)
	}
}
