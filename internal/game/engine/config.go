package engine

import (
	"fmt"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/state"
)

// PlayerConfig 玩家配置
type PlayerConfig struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GameConfig describes a new game.
type GameConfig struct {
	Players             []PlayerConfig `json:"players"`
	IncludeMulticolor   bool           `json:"includeMulticolor"`
	MulticolorShortDeck bool           `json:"multicolorShortDeck"`
	MulticolorWildHints bool           `json:"multicolorWildHints"`
	EndlessMode         bool           `json:"endlessMode"`
	MaxHintTokens       int            `json:"maxHintTokens"` // 0 = default
	MaxFuseTokens       int            `json:"maxFuseTokens"` // 0 = default
	StartingPlayerIndex int            `json:"startingPlayerIndex"`

	// Deck is an explicit card order, top first. It is used as-is unless a
	// Seed is also given.
	Deck card.Deck `json:"deck,omitempty"`
	Seed *int64    `json:"seed,omitempty"`
}

func badConfig(format string, args ...any) error {
	return apperrors.ErrInvalidConfig.WithDetail(format, args...)
}

// settings validates the configuration and derives the game settings.
func (cfg *GameConfig) settings() (state.Settings, error) {
	n := len(cfg.Players)
	if n < state.MinPlayers || n > state.MaxPlayers {
		return state.Settings{}, badConfig("need %d-%d players, got %d", state.MinPlayers, state.MaxPlayers, n)
	}

	ids := make(map[string]bool, n)
	names := make(map[string]bool, n)
	for i, p := range cfg.Players {
		if p.ID == "" {
			return state.Settings{}, badConfig("player %d has no id", i+1)
		}
		if ids[p.ID] {
			return state.Settings{}, badConfig("duplicate player id %q", p.ID)
		}
		ids[p.ID] = true

		key := state.NameKey(p.Name)
		if key == "" {
			return state.Settings{}, badConfig("player %q has no name", p.ID)
		}
		if names[key] {
			return state.Settings{}, badConfig("duplicate player name %q", p.Name)
		}
		names[key] = true
	}

	if cfg.MaxHintTokens < 0 || cfg.MaxFuseTokens < 0 {
		return state.Settings{}, badConfig("token caps must be positive")
	}
	if (cfg.MulticolorShortDeck || cfg.MulticolorWildHints) && !cfg.IncludeMulticolor {
		return state.Settings{}, badConfig("multicolor variants require includeMulticolor")
	}
	if cfg.MulticolorShortDeck && cfg.MulticolorWildHints {
		return state.Settings{}, badConfig("short deck and wild hints are mutually exclusive")
	}
	if cfg.StartingPlayerIndex < 0 || cfg.StartingPlayerIndex >= n {
		return state.Settings{}, badConfig("starting player index %d out of range", cfg.StartingPlayerIndex)
	}

	st := state.Settings{
		IncludeMulticolor:   cfg.IncludeMulticolor,
		MulticolorShortDeck: cfg.MulticolorShortDeck,
		MulticolorWildHints: cfg.MulticolorWildHints,
		EndlessMode:         cfg.EndlessMode,
		MaxHintTokens:       cfg.MaxHintTokens,
		MaxFuseTokens:       cfg.MaxFuseTokens,
		HandSize:            state.HandSizeFor(n),
	}
	st.ActiveSuits = st.ExpectedSuits()
	if st.MaxHintTokens == 0 {
		st.MaxHintTokens = state.DefaultMaxHintTokens
	}
	if st.MaxFuseTokens == 0 {
		st.MaxFuseTokens = state.DefaultMaxFuseTokens
	}
	return st, nil
}

// deck builds the draw order for the game.
func (cfg *GameConfig) deck(st state.Settings) (card.Deck, error) {
	var deck card.Deck
	if cfg.Deck != nil {
		deck = append(card.Deck{}, cfg.Deck...)
		for i, f := range deck {
			if !st.ActiveSuits.Has(f.Suit) || !f.Number.Valid() {
				return nil, badConfig("deck card %d (%s) is not playable in this configuration", i, f)
			}
		}
	} else {
		deck = card.NewDeck(st.ActiveSuits, st.MulticolorShortDeck)
	}

	switch {
	case cfg.Seed != nil:
		deck.Shuffle(card.NewLCG(*cfg.Seed))
	case cfg.Deck == nil:
		seed, err := card.NewSeed()
		if err != nil {
			return nil, fmt.Errorf("shuffle deck: %w", err)
		}
		deck.Shuffle(card.NewLCG(seed))
	}
	return deck, nil
}
