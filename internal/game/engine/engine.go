package engine

import (
	"encoding/json"
	"fmt"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/state"
	"github.com/palemoky/fireworks/internal/game/view"
	"github.com/palemoky/fireworks/internal/logger"
)

// Engine owns one game. It is not safe for concurrent use: a host must
// serialize every call against the same instance.
type Engine struct {
	state *state.GameState
}

// New deals a new game from the configuration.
func New(cfg GameConfig) (*Engine, error) {
	st, err := cfg.settings()
	if err != nil {
		return nil, err
	}
	deck, err := cfg.deck(st)
	if err != nil {
		return nil, err
	}

	n := len(cfg.Players)
	if need := n * st.HandSize; len(deck) < need {
		return nil, badConfig("deck has %d cards, dealing needs %d", len(deck), need)
	}

	s := &state.GameState{
		Players:                make([]state.Player, n),
		CurrentTurnPlayerIndex: cfg.StartingPlayerIndex,
		Cards:                  make(map[string]*card.Card, len(deck)),
		DiscardPile:            []string{},
		HintTokens:             st.MaxHintTokens,
		Status:                 state.StatusActive,
		Turn:                   1,
		Logs:                   []state.LogEntry{},
		UI:                     emptyUI(),
		Settings:               st,
	}
	for i := range s.Fireworks {
		s.Fireworks[i] = []string{}
	}

	cards := deck.Cards()
	for _, c := range cards {
		s.Cards[c.ID] = c
	}
	for i, p := range cfg.Players {
		s.Players[i] = state.Player{
			ID:   p.ID,
			Name: state.NormalizeName(p.Name),
			Hand: make([]string, 0, st.HandSize),
		}
	}

	// Deal one card per player per round until hands are full.
	next := 0
	for range st.HandSize {
		for i := range s.Players {
			s.Players[i].Hand = append(s.Players[i].Hand, cards[next].ID)
			next++
		}
	}
	s.DrawDeck = make([]string, 0, len(cards)-next)
	for _, c := range cards[next:] {
		s.DrawDeck = append(s.DrawDeck, c.ID)
	}

	if err := s.Validate(); err != nil {
		logger.LogError("new game failed validation: %v", err)
		return nil, err
	}
	return &Engine{state: s}, nil
}

// Restore adopts a snapshot produced elsewhere. The snapshot is copied,
// normalized and validated; on any failure nothing is adopted.
func Restore(p state.Payload) (*Engine, error) {
	if p.State == nil {
		return nil, apperrors.ErrMalformedPayload.WithDetail("missing state")
	}
	if p.Version > state.PayloadVersion {
		return nil, apperrors.ErrMalformedPayload.WithDetail("unsupported version %d", p.Version)
	}

	candidate := p.State.Clone()
	candidate.Normalize()
	if err := candidate.Validate(); err != nil {
		logger.LogWarn("rejected restored state: %v", err)
		return nil, err
	}
	return &Engine{state: candidate}, nil
}

// RestoreJSON accepts either a wrapped payload or a bare state snapshot.
func RestoreJSON(data []byte) (*Engine, error) {
	var p state.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.ErrMalformedPayload.WithDetail("%v", err)
	}
	if p.State == nil {
		var s state.GameState
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, apperrors.ErrMalformedPayload.WithDetail("%v", err)
		}
		p = state.Payload{Version: state.PayloadVersion, State: &s}
	}
	return Restore(p)
}

// Snapshot returns a deep copy of the full state.
func (e *Engine) Snapshot() *state.GameState {
	return e.state.Clone()
}

// Payload wraps a snapshot for transport or storage.
func (e *Engine) Payload() state.Payload {
	return state.Payload{Version: state.PayloadVersion, State: e.Snapshot()}
}

// Perspective projects the state for one viewer.
func (e *Engine) Perspective(viewerID string) (*view.Perspective, error) {
	return view.Build(e.state, viewerID)
}

// Score is the sum of firework heights.
func (e *Engine) Score() int {
	return e.state.Score()
}

// IsGameOver reports whether the game reached a terminal status.
func (e *Engine) IsGameOver() bool {
	return e.state.Status.Terminal()
}

// Status returns the current game status.
func (e *Engine) Status() state.Status {
	return e.state.Status
}

// CurrentPlayerID returns the id of the player to act.
func (e *Engine) CurrentPlayerID() string {
	return e.state.CurrentPlayer().ID
}

// HasPlayer reports whether id is seated at this game.
func (e *Engine) HasPlayer(id string) bool {
	return e.state.PlayerIndex(id) >= 0
}

// act runs one game action against a working copy and commits it only if
// the resulting state validates.
func (e *Engine) act(fn func(tx *txn) error) (*Outcome, error) {
	if e.state.Status.Terminal() {
		return nil, apperrors.ErrGameOver
	}
	tx := newTxn(e.state.Clone())
	if err := fn(tx); err != nil {
		return nil, err
	}
	tx.finishTurn()
	if err := e.commit(tx.s); err != nil {
		return nil, err
	}
	return tx.outcome(), nil
}

// draft applies a selection change the same way, without ending the turn.
func (e *Engine) draft(fn func(s *state.GameState) error) error {
	if e.state.Status.Terminal() {
		return apperrors.ErrGameOver
	}
	next := e.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	refreshHighlights(next)
	return e.commit(next)
}

func (e *Engine) commit(next *state.GameState) error {
	if err := next.Validate(); err != nil {
		logger.LogError("discarding candidate state: %v", err)
		return fmt.Errorf("commit: %w", err)
	}
	e.state = next
	return nil
}

func emptyUI() state.UIState {
	return state.UIState{HighlightedCardIDs: []string{}}
}
