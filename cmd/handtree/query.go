package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/handtree/internal/classifier"
	"github.com/lox/handtree/internal/config"
	"github.com/lox/handtree/internal/navigator"
	"github.com/lox/handtree/internal/tree"
)

// QueryCmd resolves a path in a saved tree and prints the node's
// statistics.
type QueryCmd struct {
	File        string   `arg:"" type:"existingfile" help:"Tree file produced by build"`
	Path        []string `arg:"" optional:"" help:"Node path starting at root"`
	ExcludeHero bool     `help:"Report non-hero statistics only"`
}

func (c *QueryCmd) Run(cfg *config.Config, logger *log.Logger) error {
	snap, err := readSnapshot(c.File)
	if err != nil {
		return err
	}

	path := navigator.Path(c.Path)
	if len(path) == 0 {
		path = navigator.Path{navigator.RootSentinel}
	}

	node, ok := navigator.Resolve(snap, path)
	if !ok {
		return fmt.Errorf("path not found: %s", strings.Join(path, " "))
	}

	printNode(snap, node, path, c.ExcludeHero)
	return nil
}

func printNode(snap *tree.Snapshot, node *tree.Node, path navigator.Path, excludeHero bool) {
	fmt.Printf("Tree %s (%d hands)\n", snap.ID, snap.HandCount)
	fmt.Printf("Node: %s\n", node.Name)
	if label := path.Label(); label != "" {
		fmt.Printf("Path: %s\n", label)
	}

	count := node.TotalCount
	percentages := node.PercentagesTotal
	if excludeHero {
		count = node.NonHeroCount
		percentages = node.PercentagesNonHero
	}
	fmt.Printf("Observations: %d\n", count)

	switch {
	case node.Terminal && node.Synthetic:
		fmt.Println("Terminal (synthetic)")
	case node.Terminal:
		fmt.Println("Terminal")
	case node.FacingAllIn:
		fmt.Println("Facing all-in")
	}

	if len(percentages) > 0 {
		fmt.Println("\nActions:")
		buckets := make([]classifier.Bucket, 0, len(percentages))
		for bucket := range percentages {
			buckets = append(buckets, bucket)
		}
		sort.Slice(buckets, func(i, j int) bool {
			if percentages[buckets[i]] != percentages[buckets[j]] {
				return percentages[buckets[i]] > percentages[buckets[j]]
			}
			return buckets[i] < buckets[j]
		})
		for _, bucket := range buckets {
			fmt.Printf("  %-24s %6.1f%%\n", bucket, percentages[bucket])
		}
	}

	children := tree.SortedChildren(node, excludeHero)
	if len(children) > 0 {
		fmt.Println("\nContinuations:")
		for _, child := range children {
			childCount := child.TotalCount
			if excludeHero {
				childCount = child.NonHeroCount
			}
			marker := ""
			if child.Synthetic {
				marker = " (synthetic)"
			}
			fmt.Printf("  %-24s %d%s\n", child.Name, childCount, marker)
		}
	}
}
