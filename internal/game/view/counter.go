package view

import (
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/state"
)

// Counts holds one tally per suit and number. Index numbers from 1.
type Counts [card.SuitCount][card.MaxNumber]int

// Get returns the tally for (suit, number).
func (c Counts) Get(s card.Suit, n card.Number) int {
	return c[s][n-1]
}

// CardCounter tracks the copies a viewer can account for without seeing
// their own hand.
type CardCounter struct {
	settings    state.Settings
	unavailable Counts
}

// NewCardCounter creates a counter for the game settings.
func NewCardCounter(st state.Settings) *CardCounter {
	return &CardCounter{settings: st}
}

// DeductCards marks the cards as known to be out of reach.
func (cc *CardCounter) DeductCards(cards []*card.Card) {
	for _, c := range cards {
		if c == nil || !c.Suit.Valid() || !c.Number.Valid() {
			continue
		}
		cc.unavailable[c.Suit][c.Number-1]++
	}
}

// Unavailable returns the known-unavailable tallies.
func (cc *CardCounter) Unavailable() Counts {
	return cc.unavailable
}

// Remaining returns total copies minus known-unavailable, floored at zero.
func (cc *CardCounter) Remaining() Counts {
	var out Counts
	for _, s := range cc.settings.ActiveSuits.Suits() {
		for n := card.MinNumber; n <= card.MaxNumber; n++ {
			out[s][n-1] = max(cc.settings.CopyCount(s, n)-cc.unavailable.Get(s, n), 0)
		}
	}
	return out
}
