package poker

// CategoryUnknown is returned when hole cards are missing or unparseable.
// Unknown hands are excluded from hole-card charting.
const CategoryUnknown = "Unknown"

// Categorize reduces two hole cards to their standard 169-way starting-hand
// category: pairs ("KK"), suited ("AKs") and offsuit ("AKo") combinations.
func Categorize(card1, card2 Card) string {
	if card1.Rank < Two || card1.Rank > Ace || card2.Rank < Two || card2.Rank > Ace {
		return CategoryUnknown
	}

	if card1.Rank == card2.Rank {
		return card1.Rank.String() + card2.Rank.String()
	}

	high, low := card1, card2
	if low.Rank > high.Rank {
		high, low = low, high
	}

	suffix := "o"
	if card1.Suit == card2.Suit {
		suffix = "s"
	}
	return high.Rank.String() + low.Rank.String() + suffix
}

// CategorizeStrings categorizes a raw two-card hand, returning
// CategoryUnknown for anything that does not parse as exactly two cards.
func CategorizeStrings(cards []string) string {
	if len(cards) != 2 {
		return CategoryUnknown
	}
	card1, err1 := ParseCard(cards[0])
	card2, err2 := ParseCard(cards[1])
	if err1 != nil || err2 != nil {
		return CategoryUnknown
	}
	return Categorize(card1, card2)
}

// AllCategories returns all 169 starting-hand categories in chart order:
// 13 pairs first, then suited and offsuit combinations by descending rank.
func AllCategories() []string {
	ranks := []Rank{Ace, King, Queen, Jack, Ten, Nine, Eight, Seven, Six, Five, Four, Three, Two}

	categories := make([]string, 0, 169)
	for _, r := range ranks {
		categories = append(categories, r.String()+r.String())
	}
	for i, high := range ranks {
		for _, low := range ranks[i+1:] {
			categories = append(categories, high.String()+low.String()+"s")
			categories = append(categories, high.String()+low.String()+"o")
		}
	}
	return categories
}
