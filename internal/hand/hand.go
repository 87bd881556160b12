// Package hand defines the structured hand-history records consumed by the
// tree-building pipeline. Records arrive already resolved by an importer:
// actor identity, position, hero flag and hole cards are populated, and
// actions are ordered chronologically within each hand.
package hand

import "github.com/lox/handtree/poker"

// ActionType is the raw action code recorded by the importer.
type ActionType int

const (
	Fold       ActionType = 0
	SmallBlind ActionType = 1
	BigBlind   ActionType = 2
	Call       ActionType = 3
	Check      ActionType = 4
	Bet        ActionType = 5
	AllIn      ActionType = 7
	Ante       ActionType = 15
	Raise      ActionType = 23
)

// String returns the importer's name for the action code.
func (a ActionType) String() string {
	switch a {
	case Fold:
		return "fold"
	case SmallBlind:
		return "small_blind"
	case BigBlind:
		return "big_blind"
	case Call:
		return "call"
	case Check:
		return "check"
	case Bet:
		return "bet"
	case AllIn:
		return "all_in"
	case Ante:
		return "ante"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// Street identifies a betting round.
type Street int

const (
	Preflop Street = 1
	Flop    Street = 2
	Turn    Street = 3
	River   Street = 4
)

// String returns the street name used as a tree node label.
func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

// Streets lists the betting rounds in play order.
func Streets() []Street {
	return []Street{Preflop, Flop, Turn, River}
}

// RawAction is one recorded action with the context needed to classify it.
type RawAction struct {
	Actor     string     // player identifier
	Position  string     // seat role at the table ("BTN/SB", "BB", ...)
	Street    Street     // betting round the action occurred in
	Type      ActionType // raw action code
	Amount    float64    // chips committed by this action
	PotBefore float64    // pot size before the action
	Order     int        // chronological order within the hand
	IsHero    bool       // action taken by the tracked subject
}

// Player describes one seat in a hand.
type Player struct {
	Name         string
	Position     string
	InitialStack float64
	IsHero       bool
	HoleCards    []poker.Card // empty when unknown
}

// Blinds describes the blind structure for a hand.
type Blinds struct {
	Small float64
	Big   float64
	Ante  float64
}

// Hand is one complete recorded hand: seats, blinds and the ordered
// action sequence across all streets.
type Hand struct {
	ID      string
	Blinds  Blinds
	Players []Player
	Actions []RawAction
}

// HeadsUp reports whether the hand was played two-handed.
func (h *Hand) HeadsUp() bool {
	return len(h.Players) == 2
}

// PlayerByName returns the seat record for a player, or nil.
func (h *Hand) PlayerByName(name string) *Player {
	for i := range h.Players {
		if h.Players[i].Name == name {
			return &h.Players[i]
		}
	}
	return nil
}

// HoleCategory returns the 169-way starting-hand category for a player,
// or poker.CategoryUnknown when the cards were not recorded.
func (h *Hand) HoleCategory(name string) string {
	p := h.PlayerByName(name)
	if p == nil || len(p.HoleCards) != 2 {
		return poker.CategoryUnknown
	}
	return poker.Categorize(p.HoleCards[0], p.HoleCards[1])
}

// StreetActions returns the hand's actions for one street, preserving order.
func (h *Hand) StreetActions(street Street) []RawAction {
	var actions []RawAction
	for _, a := range h.Actions {
		if a.Street == street {
			actions = append(actions, a)
		}
	}
	return actions
}
