// Package sequencer turns one hand's classified actions into per-street
// decision sub-trees. Sequencing is pure and per-hand, so batches of hands
// can be sequenced concurrently and merged afterwards.
package sequencer

import (
	"sort"
	"strings"

	"github.com/lox/handtree/internal/classifier"
	"github.com/lox/handtree/internal/hand"
	"github.com/lox/handtree/internal/tree"
	"github.com/lox/handtree/poker"
)

// classified pairs a raw action with its semantic bucket.
type classified struct {
	action hand.RawAction
	bucket classifier.Bucket
}

// Sequence builds a single-hand tree for h. The result is merged into a
// cumulative builder by the caller; Sequence itself never touches shared
// state.
func Sequence(h *hand.Hand) *tree.Builder {
	b := tree.NewBuilder()
	actions := classify(h)

	for _, street := range hand.Streets() {
		streetActions := filterStreet(actions, street)
		if len(streetActions) == 0 {
			continue
		}
		if h.HeadsUp() {
			sequenceHeadsUp(b.Street(street.String()), h, street, streetActions)
		} else {
			sequencePositions(b.Street(street.String()), h, streetActions)
		}
	}

	b.AddHands(1)
	return b
}

// classify walks the hand chronologically, tracking per-street
// contributions and remaining stacks, and classifies every action.
// Unknown action codes are dropped here, before sequencing.
func classify(h *hand.Hand) []classified {
	ordered := make([]hand.RawAction, len(h.Actions))
	copy(ordered, h.Actions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})

	stacks := make(map[string]float64, len(h.Players))
	for _, p := range h.Players {
		stacks[p.Name] = p.InitialStack
	}

	contrib := make(map[hand.Street]map[string]float64)
	roundMax := make(map[hand.Street]float64)

	var out []classified
	for _, a := range ordered {
		if contrib[a.Street] == nil {
			contrib[a.Street] = make(map[string]float64)
		}

		ctx := classifier.Context{
			Blinds:            h.Blinds,
			RoundContribution: contrib[a.Street][a.Actor],
			RoundMax:          roundMax[a.Street],
			RemainingStack:    stacks[a.Actor],
		}
		bucket, ok := classifier.Classify(a, ctx)

		contrib[a.Street][a.Actor] += a.Amount
		if contrib[a.Street][a.Actor] > roundMax[a.Street] {
			roundMax[a.Street] = contrib[a.Street][a.Actor]
		}
		stacks[a.Actor] -= a.Amount
		if stacks[a.Actor] < 0 {
			stacks[a.Actor] = 0
		}

		if ok {
			out = append(out, classified{action: a, bucket: bucket})
		}
	}
	return out
}

func filterStreet(actions []classified, street hand.Street) []classified {
	var out []classified
	for _, c := range actions {
		if c.action.Street == street {
			out = append(out, c)
		}
	}
	return out
}

// sequenceHeadsUp builds the alternating position/action tree for one
// street of a two-handed game. The button acts first preflop, the big
// blind first postflop.
func sequenceHeadsUp(streetNode *tree.Node, h *hand.Hand, street hand.Street, actions []classified) {
	btnPos, bbPos := headsUpPositions(h)
	if btnPos == "" || bbPos == "" {
		return
	}

	first, second := btnPos, bbPos
	if street != hand.Preflop {
		first, second = bbPos, btnPos
	}

	current := streetNode.Child(first)
	currentPos, nextPos := first, second

	facingAllIn := false
	terminal := false

	for _, c := range actions {
		// Tolerate malformed logs: actions from the wrong seat, or
		// arriving after the branch ended, are skipped.
		if c.action.Position != currentPos || terminal {
			continue
		}
		if facingAllIn && !c.bucket.ClosesFacingAllIn() && c.bucket != classifier.BucketFold {
			continue
		}

		category := h.HoleCategory(c.action.Actor)

		current.AddAction(c.bucket, c.action.IsHero)
		if category != poker.CategoryUnknown {
			current.AddHoleCategory(category, c.action.IsHero)
		}

		actionNode := current.Child(string(c.bucket))
		if category != poker.CategoryUnknown {
			actionNode.AddHoleCategory(category, c.action.IsHero)
		}

		switch {
		case c.bucket.IsTerminal():
			// Fold ends the branch for the rest of the hand.
			actionNode.Terminal = true
			terminal = true

		case c.bucket.IsAllInRaise():
			// Opponent now faces an all-in: their node's only legal
			// continuations are fold and call, completed synthetically
			// later if never observed.
			facingAllIn = true
			opponent := actionNode.Child(nextPos)
			opponent.FacingAllIn = true
			current = opponent
			currentPos, nextPos = nextPos, currentPos

		case facingAllIn && c.bucket.ClosesFacingAllIn():
			// Calling an all-in goes to showdown.
			actionNode.Terminal = true
			terminal = true

		default:
			current = actionNode.Child(nextPos)
			currentPos, nextPos = nextPos, currentPos
		}
	}
}

// sequencePositions builds independent per-position action chains for one
// street of a game with three or more players. There is no shared
// alternation: successive actions by the same position chain directly into
// successive action-bucket nodes.
func sequencePositions(streetNode *tree.Node, h *hand.Hand, actions []classified) {
	current := make(map[string]*tree.Node)

	for _, c := range actions {
		pos := c.action.Position
		if pos == "" {
			continue
		}
		node, ok := current[pos]
		if !ok {
			node = streetNode.Child(pos)
			current[pos] = node
		}

		category := h.HoleCategory(c.action.Actor)

		node.AddAction(c.bucket, c.action.IsHero)
		if category != poker.CategoryUnknown {
			node.AddHoleCategory(category, c.action.IsHero)
		}

		child := node.Child(string(c.bucket))
		if category != poker.CategoryUnknown {
			child.AddHoleCategory(category, c.action.IsHero)
		}
		current[pos] = child
	}
}

// headsUpPositions identifies the button and big-blind seats of a
// two-handed game from the recorded position labels.
func headsUpPositions(h *hand.Hand) (btn, bb string) {
	for _, p := range h.Players {
		switch {
		case strings.Contains(p.Position, "BTN") || strings.Contains(p.Position, "SB"):
			btn = p.Position
		case strings.Contains(p.Position, "BB"):
			bb = p.Position
		}
	}
	return btn, bb
}
