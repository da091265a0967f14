package state

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/palemoky/fireworks/internal/game/card"
)

const (
	DefaultMaxHintTokens = 8
	DefaultMaxFuseTokens = 3
)

// Normalize fills in fields that older or hand-written snapshots may omit.
// It never repairs rule violations; Validate still has the final word.
func (s *GameState) Normalize() {
	for i := range s.Players {
		if s.Players[i].Hand == nil {
			s.Players[i].Hand = []string{}
		}
	}
	if s.Cards == nil {
		s.Cards = map[string]*card.Card{}
	}
	for _, c := range s.Cards {
		if c == nil {
			continue
		}
		if c.Hints.NotColors == nil {
			c.Hints.NotColors = []card.Suit{}
		}
		if c.Hints.NotNumbers == nil {
			c.Hints.NotNumbers = []card.Number{}
		}
	}
	if s.DrawDeck == nil {
		s.DrawDeck = []string{}
	}
	if s.DiscardPile == nil {
		s.DiscardPile = []string{}
	}
	for i := range s.Fireworks {
		if s.Fireworks[i] == nil {
			s.Fireworks[i] = []string{}
		}
	}
	if s.Logs == nil {
		s.Logs = []LogEntry{}
	}
	if s.UI.HighlightedCardIDs == nil {
		s.UI.HighlightedCardIDs = []string{}
	}

	if s.Settings.MaxHintTokens == 0 {
		s.Settings.MaxHintTokens = DefaultMaxHintTokens
	}
	if s.Settings.MaxFuseTokens == 0 {
		s.Settings.MaxFuseTokens = DefaultMaxFuseTokens
	}
	if s.Settings.HandSize == 0 {
		s.Settings.HandSize = HandSizeFor(len(s.Players))
	}
	if s.Settings.ActiveSuits == 0 {
		s.Settings.ActiveSuits = s.Settings.ExpectedSuits()
	}

	if s.Status == "" {
		s.Status = StatusActive
	}
	// Snapshots from before the final-round countdown carry last_round
	// without a counter; they resume as a regular game.
	if s.Status == StatusLastRound && s.FinalTurnsLeft <= 0 {
		s.Status = StatusActive
		s.FinalTurnsLeft = 0
	}
	if s.Turn == 0 {
		s.Turn = 1
	}
}

// NormalizeName trims and collapses whitespace in a display name.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NameKey is the comparison key used for name uniqueness.
func NameKey(name string) string {
	return cases.Fold().String(NormalizeName(name))
}
