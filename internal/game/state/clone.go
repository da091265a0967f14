package state

import (
	"slices"

	"github.com/palemoky/fireworks/internal/game/card"
)

// Clone deep-copies the state. The copy shares no memory with s.
func (s *GameState) Clone() *GameState {
	out := &GameState{
		Players:                make([]Player, len(s.Players)),
		CurrentTurnPlayerIndex: s.CurrentTurnPlayerIndex,
		Cards:                  make(map[string]*card.Card, len(s.Cards)),
		DrawDeck:               slices.Clone(s.DrawDeck),
		DiscardPile:            slices.Clone(s.DiscardPile),
		HintTokens:             s.HintTokens,
		FuseTokensUsed:         s.FuseTokensUsed,
		Status:                 s.Status,
		EndReason:              s.EndReason,
		Turn:                   s.Turn,
		FinalTurnsLeft:         s.FinalTurnsLeft,
		Logs:                   cloneLogs(s.Logs),
		UI:                     s.UI.Clone(),
		Settings:               s.Settings,
	}
	if s.Players == nil {
		out.Players = nil
	}
	for i, p := range s.Players {
		out.Players[i] = Player{ID: p.ID, Name: p.Name, Hand: slices.Clone(p.Hand)}
	}
	if s.Cards == nil {
		out.Cards = nil
	}
	for id, c := range s.Cards {
		if c == nil {
			out.Cards[id] = nil
			continue
		}
		out.Cards[id] = c.Clone()
	}
	for i, pile := range s.Fireworks {
		out.Fireworks[i] = slices.Clone(pile)
	}
	return out
}

// Clone deep-copies the selection draft.
func (u UIState) Clone() UIState {
	out := u
	out.HighlightedCardIDs = slices.Clone(u.HighlightedCardIDs)
	if u.HintSuit != nil {
		out.HintSuit = card.SuitPtr(*u.HintSuit)
	}
	if u.HintNumber != nil {
		out.HintNumber = card.NumberPtr(*u.HintNumber)
	}
	return out
}

// Clone deep-copies a log entry.
func (e LogEntry) Clone() LogEntry {
	out := e
	out.CardIDs = slices.Clone(e.CardIDs)
	if e.Suit != nil {
		out.Suit = card.SuitPtr(*e.Suit)
	}
	if e.Number != nil {
		out.Number = card.NumberPtr(*e.Number)
	}
	if e.Success != nil {
		v := *e.Success
		out.Success = &v
	}
	if e.Score != nil {
		v := *e.Score
		out.Score = &v
	}
	return out
}

func cloneLogs(logs []LogEntry) []LogEntry {
	if logs == nil {
		return nil
	}
	out := make([]LogEntry, len(logs))
	for i, e := range logs {
		out[i] = e.Clone()
	}
	return out
}
