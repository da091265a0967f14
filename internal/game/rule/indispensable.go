package rule

import "github.com/palemoky/fireworks/internal/game/card"

// Remaining counts the copies of each suit/number still obtainable.
type Remaining [card.SuitCount][card.MaxNumber]int

// Add records one more obtainable copy.
func (r *Remaining) Add(s card.Suit, n card.Number) {
	if s.Valid() && n.Valid() {
		r[s][n-1]++
	}
}

// Get returns the obtainable copies of (s, n).
func (r *Remaining) Get(s card.Suit, n card.Number) int {
	if !s.Valid() || !n.Valid() {
		return 0
	}
	return r[s][n-1]
}

// MissingIndispensable returns the first card some suit still needs of which
// no copy is left anywhere. When ok is true the game can no longer be won.
func MissingIndispensable(active card.SuitSet, heights [card.SuitCount]int, remaining *Remaining) (card.Face, bool) {
	for _, s := range active.Suits() {
		for n := card.Number(heights[s] + 1); n <= card.MaxNumber; n++ {
			if remaining.Get(s, n) == 0 {
				return card.Face{Suit: s, Number: n}, true
			}
		}
	}
	return card.Face{}, false
}
