package card

import "fmt"

// copiesPerNumber 每个点数的张数
var copiesPerNumber = [MaxNumber + 1]int{0, 3, 2, 2, 2, 1}

// CopyCount returns how many copies of (suit, number) a deck holds. When
// shortWild is set the wild suit carries a single copy of each number.
func CopyCount(s Suit, n Number, shortWild bool) int {
	if !n.Valid() || !s.Valid() {
		return 0
	}
	if shortWild && s == Wild {
		return 1
	}
	return copiesPerNumber[n]
}

// Face is a card identity without id or hints, used for explicit decks.
type Face struct {
	Suit   Suit   `json:"suit"`
	Number Number `json:"number"`
}

func (f Face) String() string {
	return fmt.Sprintf("%s%d", f.Suit, f.Number)
}

// Deck 定义一副牌 (top of the deck first)
type Deck []Face

// NewDeck builds the full multiset for the active suits, ordered by suit then number.
func NewDeck(active SuitSet, shortWild bool) Deck {
	deck := make(Deck, 0, 60)
	for _, s := range active.Suits() {
		for n := MinNumber; n <= MaxNumber; n++ {
			for range CopyCount(s, n, shortWild) {
				deck = append(deck, Face{Suit: s, Number: n})
			}
		}
	}
	return deck
}

// Size returns the total card count for a configuration without building it.
func Size(active SuitSet, shortWild bool) int {
	total := 0
	for _, s := range active.Suits() {
		for n := MinNumber; n <= MaxNumber; n++ {
			total += CopyCount(s, n, shortWild)
		}
	}
	return total
}

// Shuffle permutes the deck in place with the given generator.
func (d Deck) Shuffle(rng *LCG) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// Cards assigns sequential zero-padded ids in deck order and returns fresh cards.
func (d Deck) Cards() []*Card {
	width := len(fmt.Sprint(len(d) - 1))
	if width < 2 {
		width = 2
	}
	cards := make([]*Card, len(d))
	for i, f := range d {
		cards[i] = &Card{
			ID:     fmt.Sprintf("c%0*d", width, i),
			Suit:   f.Suit,
			Number: f.Number,
			Hints:  NewHints(),
		}
	}
	return cards
}
