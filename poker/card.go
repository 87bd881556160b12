package poker

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the lowercase suit letter used in standard notation
func (s Suit) String() string {
	switch s {
	case Spades:
		return "s"
	case Hearts:
		return "h"
	case Diamonds:
		return "d"
	case Clubs:
		return "c"
	default:
		return "?"
	}
}

// Rank represents a card rank
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the single-letter rank ("T" for ten)
func (r Rank) String() string {
	if r >= Two && r <= Nine {
		return string(rune('0' + int(r)))
	}
	switch r {
	case Ten:
		return "T"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank
	Suit Suit
}

// String returns the card in standard notation (e.g., "Ks")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

var rankLetters = map[byte]Rank{
	'2': Two, '3': Three, '4': Four, '5': Five, '6': Six, '7': Seven,
	'8': Eight, '9': Nine, 'T': Ten, 'J': Jack, 'Q': Queen, 'K': King, 'A': Ace,
}

var suitLetters = map[byte]Suit{
	'S': Spades, 'H': Hearts, 'D': Diamonds, 'C': Clubs,
	's': Spades, 'h': Hearts, 'd': Diamonds, 'c': Clubs,
}

// ParseCard parses a card in either standard notation ("Ks", "Td") or
// hand-history notation with a leading uppercase suit ("SK", "D10").
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}

	// Suit-first form used by hand history exports: "SK", "C6", "H10"
	if suit, ok := suitLetters[s[0]]; ok && s[0] >= 'A' && s[0] <= 'Z' {
		rankStr := s[1:]
		if rankStr == "10" {
			rankStr = "T"
		}
		if len(rankStr) == 1 {
			if rank, ok := rankLetters[rankStr[0]]; ok {
				return Card{Rank: rank, Suit: suit}, nil
			}
		}
		return Card{}, fmt.Errorf("invalid card rank in %q", s)
	}

	// Standard rank-first form: "Ks", "Tc", "10h"
	rankStr := s[:len(s)-1]
	if rankStr == "10" {
		rankStr = "T"
	}
	if len(rankStr) != 1 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	rank, ok := rankLetters[rankStr[0]]
	if !ok {
		return Card{}, fmt.Errorf("invalid card rank in %q", s)
	}
	suit, ok := suitLetters[s[len(s)-1]]
	if !ok {
		return Card{}, fmt.Errorf("invalid card suit in %q", s)
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// ParseHoleCards parses a whitespace-separated pair like "SK C6".
func ParseHoleCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
