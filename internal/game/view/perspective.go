package view

import (
	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/state"
)

// Card is a card as one viewer sees it. Suit and Number are nil for the
// viewer's own cards.
type Card struct {
	ID     string       `json:"id"`
	Suit   *card.Suit   `json:"suit"`
	Number *card.Number `json:"number"`
	Hints  card.Hints   `json:"hints"`
}

// Player 视角中的玩家
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsSelf bool   `json:"isSelf"`
	Hand   []Card `json:"hand"`
}

// Perspective is the read model for one viewer.
type Perspective struct {
	ViewerID               string              `json:"viewerId"`
	Players                []Player            `json:"players"`
	CurrentTurnPlayerIndex int                 `json:"currentTurnPlayerIndex"`
	DiscardPile            []Card              `json:"discardPile"`
	Fireworks              state.Fireworks     `json:"fireworks"`
	FireworkHeights        [card.SuitCount]int `json:"fireworkHeights"`
	HintTokens             int                 `json:"hintTokens"`
	FuseTokensUsed         int                 `json:"fuseTokensUsed"`
	DeckRemaining          int                 `json:"deckRemaining"`
	Score                  int                 `json:"score"`
	MaxScore               int                 `json:"maxScore"`
	Status                 state.Status        `json:"status"`
	EndReason              state.EndReason     `json:"endReason,omitempty"`
	Turn                   int                 `json:"turn"`
	FinalTurnsLeft         int                 `json:"finalTurnsLeft,omitempty"`
	KnownUnavailable       Counts              `json:"knownUnavailable"`
	KnownRemaining         Counts              `json:"knownRemaining"`
	Logs                   []state.LogEntry    `json:"logs"`
	UI                     state.UIState       `json:"ui"`
	Settings               state.Settings      `json:"settings"`
}

// Build projects the state for viewerID. The state is only read; the result
// shares no memory with it.
func Build(s *state.GameState, viewerID string) (*Perspective, error) {
	viewer := s.PlayerIndex(viewerID)
	if viewer < 0 {
		return nil, apperrors.ErrUnknownPlayer.WithDetail("viewer %q", viewerID)
	}

	counter := NewCardCounter(s.Settings)
	p := &Perspective{
		ViewerID:               viewerID,
		Players:                make([]Player, len(s.Players)),
		CurrentTurnPlayerIndex: s.CurrentTurnPlayerIndex,
		DiscardPile:            make([]Card, 0, len(s.DiscardPile)),
		FireworkHeights:        s.Heights(),
		HintTokens:             s.HintTokens,
		FuseTokensUsed:         s.FuseTokensUsed,
		DeckRemaining:          len(s.DrawDeck),
		Score:                  s.Score(),
		MaxScore:               s.Settings.MaxScore(),
		Status:                 s.Status,
		EndReason:              s.EndReason,
		Turn:                   s.Turn,
		FinalTurnsLeft:         s.FinalTurnsLeft,
		Settings:               s.Settings,
	}

	for i := range s.Players {
		src := &s.Players[i]
		self := i == viewer
		hand := s.HandCards(src)
		dst := Player{ID: src.ID, Name: src.Name, IsSelf: self, Hand: make([]Card, 0, len(hand))}
		for _, c := range hand {
			dst.Hand = append(dst.Hand, project(c, self))
		}
		if !self {
			counter.DeductCards(hand)
		}
		p.Players[i] = dst
	}

	discards := cardsOf(s, s.DiscardPile)
	for _, c := range discards {
		p.DiscardPile = append(p.DiscardPile, project(c, false))
	}
	counter.DeductCards(discards)

	for i, pile := range s.Fireworks {
		p.Fireworks[i] = append([]string{}, pile...)
		counter.DeductCards(cardsOf(s, pile))
	}

	p.KnownUnavailable = counter.Unavailable()
	p.KnownRemaining = counter.Remaining()

	p.Logs = make([]state.LogEntry, len(s.Logs))
	for i, e := range s.Logs {
		p.Logs[i] = e.Clone()
	}
	p.UI = s.UI.Clone()
	// A hint preview aimed at the viewer would reveal their own cards.
	if p.UI.HintTargetID == viewerID {
		p.UI.HighlightedCardIDs = []string{}
	}
	return p, nil
}

func project(c *card.Card, hidden bool) Card {
	out := Card{ID: c.ID, Hints: c.Hints.Clone()}
	if !hidden {
		out.Suit = card.SuitPtr(c.Suit)
		out.Number = card.NumberPtr(c.Number)
	}
	return out
}

func cardsOf(s *state.GameState, ids []string) []*card.Card {
	out := make([]*card.Card, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.Cards[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
