//go:build !production

package engine

import (
	"fmt"
	"strings"

	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/state"
)

var suitLetters = map[byte]card.Suit{
	'r': card.Red,
	'y': card.Yellow,
	'g': card.Green,
	'b': card.Blue,
	'w': card.White,
	'm': card.Multicolor,
}

// ParseDeck 解析测试牌组, e.g. "r1 y3 m5" (top of the deck first).
func ParseDeck(codes string) card.Deck {
	fields := strings.Fields(codes)
	deck := make(card.Deck, 0, len(fields))
	for _, f := range fields {
		suit, ok := suitLetters[f[0]]
		if !ok || len(f) != 2 || f[1] < '1' || f[1] > '5' {
			panic(fmt.Sprintf("bad card code %q", f))
		}
		deck = append(deck, card.Face{Suit: suit, Number: card.Number(f[1] - '0')})
	}
	return deck
}

// TwoPlayerConfig 创建测试用的双人配置
func TwoPlayerConfig(deck card.Deck) GameConfig {
	return GameConfig{
		Players: []PlayerConfig{
			{ID: "alice", Name: "Alice"},
			{ID: "bob", Name: "Bob"},
		},
		Deck: deck,
	}
}

// MutateForTest edits the committed state directly. The result must still
// validate.
func (e *Engine) MutateForTest(fn func(s *state.GameState)) error {
	next := e.state.Clone()
	fn(next)
	return e.commit(next)
}
