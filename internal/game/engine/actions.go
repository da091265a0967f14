package engine

import (
	"slices"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/rule"
	"github.com/palemoky/fireworks/internal/game/state"
)

// PlayCard plays a card from the current player's hand onto its firework.
func (e *Engine) PlayCard(cardID string) (*Outcome, error) {
	return e.act(func(tx *txn) error { return tx.play(cardID) })
}

// DiscardCard discards a card from the current player's hand to regain a hint token.
func (e *Engine) DiscardCard(cardID string) (*Outcome, error) {
	return e.act(func(tx *txn) error { return tx.discard(cardID) })
}

// GiveColorHint tells the target which of their cards are of the suit.
func (e *Engine) GiveColorHint(targetID string, suit card.Suit) (*Outcome, error) {
	return e.act(func(tx *txn) error {
		return tx.hint(targetID, rule.Hint{Kind: rule.ColorHint, Suit: suit})
	})
}

// GiveNumberHint tells the target which of their cards carry the number.
func (e *Engine) GiveNumberHint(targetID string, number card.Number) (*Outcome, error) {
	return e.act(func(tx *txn) error {
		return tx.hint(targetID, rule.Hint{Kind: rule.NumberHint, Number: number})
	})
}

func (tx *txn) play(cardID string) error {
	c, err := tx.takeFromHand(cardID)
	if err != nil {
		return err
	}
	tx.clearRecentHints()

	s := tx.s
	pile := s.Fireworks[c.Suit]
	success := int(c.Number) == len(pile)+1
	entry := state.LogEntry{
		Kind:    state.LogPlay,
		ActorID: tx.actorPlayer().ID,
		CardID:  c.ID,
		Suit:    card.SuitPtr(c.Suit),
		Number:  card.NumberPtr(c.Number),
		Success: &success,
	}
	if success {
		s.Fireworks[c.Suit] = append(pile, c.ID)
		if c.Number == card.MaxNumber && s.HintTokens < s.Settings.MaxHintTokens {
			s.HintTokens++
			entry.HintTokensDelta = 1
		}
	} else {
		s.DiscardPile = append(s.DiscardPile, c.ID)
		s.FuseTokensUsed++
		entry.FuseTokensDelta = 1
	}
	tx.log(entry)

	switch {
	case s.FuseTokensUsed >= s.Settings.MaxFuseTokens:
		tx.end(state.StatusLost, state.ReasonFuseLimit)
	case tx.unwinnable():
		tx.end(state.StatusLost, state.ReasonIndispensableLost)
	case s.AllComplete():
		tx.end(state.StatusWon, state.ReasonAllComplete)
	default:
		tx.draw()
	}
	return nil
}

func (tx *txn) discard(cardID string) error {
	s := tx.s
	if s.HintTokens >= s.Settings.MaxHintTokens {
		return apperrors.ErrHintTokensFull.WithDetail("%d/%d", s.HintTokens, s.Settings.MaxHintTokens)
	}
	c, err := tx.takeFromHand(cardID)
	if err != nil {
		return err
	}
	tx.clearRecentHints()

	s.DiscardPile = append(s.DiscardPile, c.ID)
	s.HintTokens++
	tx.log(state.LogEntry{
		Kind:            state.LogDiscard,
		ActorID:         tx.actorPlayer().ID,
		CardID:          c.ID,
		Suit:            card.SuitPtr(c.Suit),
		Number:          card.NumberPtr(c.Number),
		HintTokensDelta: 1,
	})

	if tx.unwinnable() {
		tx.end(state.StatusLost, state.ReasonIndispensableLost)
		return nil
	}
	tx.draw()
	return nil
}

func (tx *txn) hint(targetID string, h rule.Hint) error {
	s := tx.s
	idx := s.PlayerIndex(targetID)
	if idx < 0 {
		return apperrors.ErrUnknownPlayer.WithDetail("%q", targetID)
	}
	if idx == tx.actor {
		return apperrors.ErrSelfHint
	}
	if s.HintTokens <= 0 {
		return apperrors.ErrNoHintTokens
	}

	target := &s.Players[idx]
	plan, err := rule.Evaluate(s.HandCards(target), h, variantOf(s.Settings))
	if err != nil {
		return err
	}

	tx.clearRecentHints()
	plan.Apply(s.Cards)
	s.HintTokens--

	entry := state.LogEntry{
		Kind:            state.LogHint,
		ActorID:         tx.actorPlayer().ID,
		TargetID:        target.ID,
		CardIDs:         slices.Clone(plan.Touched),
		HintKind:        string(h.Kind),
		HintTokensDelta: -1,
	}
	if h.Kind == rule.ColorHint {
		entry.Suit = card.SuitPtr(h.Suit)
	} else {
		entry.Number = card.NumberPtr(h.Number)
	}
	tx.log(entry)
	return nil
}

// takeFromHand removes a card from the acting player's hand.
func (tx *txn) takeFromHand(cardID string) (*card.Card, error) {
	p := tx.actorPlayer()
	i := slices.Index(p.Hand, cardID)
	if i < 0 {
		if _, ok := tx.s.Cards[cardID]; !ok {
			return nil, apperrors.ErrUnknownCard.WithDetail("%q", cardID)
		}
		return nil, apperrors.ErrCardNotInHand.WithDetail("%q", cardID)
	}
	p.Hand = slices.Delete(p.Hand, i, i+1)
	return tx.s.Cards[cardID], nil
}

// draw moves the top of the deck into the actor's hand. Empty deck is a no-op.
func (tx *txn) draw() {
	s := tx.s
	if len(s.DrawDeck) == 0 {
		return
	}
	id := s.DrawDeck[0]
	s.DrawDeck = s.DrawDeck[1:]
	p := tx.actorPlayer()
	p.Hand = append(p.Hand, id)
	tx.log(state.LogEntry{Kind: state.LogDraw, ActorID: p.ID, CardID: id})
}

func (tx *txn) clearRecentHints() {
	for _, c := range tx.s.Cards {
		c.Hints.RecentlyHinted = false
	}
}

// unwinnable reports, in endless mode, whether some still-needed card has no
// copy left in the deck or any hand.
func (tx *txn) unwinnable() bool {
	s := tx.s
	if !s.Settings.EndlessMode {
		return false
	}
	var remaining rule.Remaining
	for _, id := range s.DrawDeck {
		c := s.Cards[id]
		remaining.Add(c.Suit, c.Number)
	}
	for _, p := range s.Players {
		for _, id := range p.Hand {
			c := s.Cards[id]
			remaining.Add(c.Suit, c.Number)
		}
	}
	_, lost := rule.MissingIndispensable(s.Settings.ActiveSuits, s.Heights(), &remaining)
	return lost
}

func variantOf(st state.Settings) rule.Variant {
	return rule.Variant{Active: st.ActiveSuits, WildHints: st.MulticolorWildHints}
}
