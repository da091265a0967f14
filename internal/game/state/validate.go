package state

import (
	"fmt"
	"slices"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
)

const (
	MinPlayers = 2
	MaxPlayers = 5
)

// Validate checks every structural and rule invariant. It is run on freshly
// built states, after every committed mutation and on restored snapshots.
func (s *GameState) Validate() error {
	checks := []func() error{
		s.validateSettings,
		s.validatePlayers,
		s.validateCards,
		s.validateZones,
		s.validateFireworks,
		s.validateTokens,
		s.validateStatus,
		s.validateLogs,
		s.validateUI,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return apperrors.ErrInvalidState.WithDetail(format, args...)
}

func (s *GameState) validateSettings() error {
	st := s.Settings
	if (st.MulticolorShortDeck || st.MulticolorWildHints) && !st.IncludeMulticolor {
		return invalid("multicolor variants require the multicolor suit")
	}
	if st.MulticolorShortDeck && st.MulticolorWildHints {
		return invalid("short deck and wild hints cannot be combined")
	}
	if st.ActiveSuits != st.ExpectedSuits() {
		return invalid("active suits %v do not match the multicolor setting", st.ActiveSuits.Suits())
	}
	if st.MaxHintTokens <= 0 || st.MaxFuseTokens <= 0 {
		return invalid("token caps must be positive")
	}
	if st.HandSize <= 0 {
		return invalid("hand size must be positive")
	}
	return nil
}

func (s *GameState) validatePlayers() error {
	if len(s.Players) < MinPlayers || len(s.Players) > MaxPlayers {
		return invalid("need %d-%d players, got %d", MinPlayers, MaxPlayers, len(s.Players))
	}
	if s.CurrentTurnPlayerIndex < 0 || s.CurrentTurnPlayerIndex >= len(s.Players) {
		return invalid("current player index %d out of range", s.CurrentTurnPlayerIndex)
	}
	ids := make(map[string]bool, len(s.Players))
	names := make(map[string]bool, len(s.Players))
	for _, p := range s.Players {
		if p.ID == "" {
			return invalid("player id is empty")
		}
		if ids[p.ID] {
			return invalid("duplicate player id %q", p.ID)
		}
		ids[p.ID] = true

		key := NameKey(p.Name)
		if key == "" {
			return invalid("player %q has no name", p.ID)
		}
		if names[key] {
			return invalid("duplicate player name %q", p.Name)
		}
		names[key] = true

		if len(p.Hand) > s.Settings.HandSize {
			return invalid("player %q holds %d cards, limit %d", p.ID, len(p.Hand), s.Settings.HandSize)
		}
	}
	return nil
}

func (s *GameState) validateCards() error {
	active := s.Settings.ActiveSuits
	for id, c := range s.Cards {
		if c == nil {
			return invalid("card %q is null", id)
		}
		if c.ID != id {
			return invalid("card keyed %q carries id %q", id, c.ID)
		}
		if !active.Has(c.Suit) {
			return invalid("card %q has inactive suit %s", id, c.Suit)
		}
		if !c.Number.Valid() {
			return invalid("card %q has number %d", id, c.Number)
		}
		if err := validateHints(c, active); err != nil {
			return err
		}
	}
	return nil
}

func validateHints(c *card.Card, active card.SuitSet) error {
	h := c.Hints
	seenSuits := card.SuitSet(0)
	for _, x := range h.NotColors {
		if !active.Has(x) {
			return invalid("card %q excludes inactive suit %s", c.ID, x)
		}
		if seenSuits.Has(x) {
			return invalid("card %q excludes %s twice", c.ID, x)
		}
		seenSuits = seenSuits.Add(x)
	}
	seenNumbers := card.NumberSet(0)
	for _, n := range h.NotNumbers {
		if !n.Valid() {
			return invalid("card %q excludes number %d", c.ID, n)
		}
		if seenNumbers.Has(n) {
			return invalid("card %q excludes %d twice", c.ID, n)
		}
		seenNumbers = seenNumbers.Add(n)
	}
	if h.Color != nil {
		if !active.Has(*h.Color) {
			return invalid("card %q hinted with inactive suit %s", c.ID, *h.Color)
		}
		if seenSuits.Has(*h.Color) {
			return invalid("card %q is both %s and not %s", c.ID, *h.Color, *h.Color)
		}
	}
	if h.Number != nil {
		if !h.Number.Valid() {
			return invalid("card %q hinted with number %d", c.ID, *h.Number)
		}
		if seenNumbers.Has(*h.Number) {
			return invalid("card %q is both %d and not %d", c.ID, *h.Number, *h.Number)
		}
	}
	// Hints are truthful, so the card's identity must survive its own beliefs.
	if !h.ColorCandidates(active).Has(c.Suit) {
		return invalid("hints on card %q rule out its suit", c.ID)
	}
	if !h.NumberCandidates().Has(c.Number) {
		return invalid("hints on card %q rule out its number", c.ID)
	}
	return nil
}

func (s *GameState) validateZones() error {
	seen := make(map[string]string, len(s.Cards))
	place := func(zone string, ids []string) error {
		for _, id := range ids {
			if _, ok := s.Cards[id]; !ok {
				return invalid("%s references unknown card %q", zone, id)
			}
			if prev, dup := seen[id]; dup {
				return invalid("card %q is in both %s and %s", id, prev, zone)
			}
			seen[id] = zone
		}
		return nil
	}

	for _, p := range s.Players {
		if err := place("hand of "+p.ID, p.Hand); err != nil {
			return err
		}
	}
	if err := place("draw deck", s.DrawDeck); err != nil {
		return err
	}
	if err := place("discard pile", s.DiscardPile); err != nil {
		return err
	}
	for suit, pile := range s.Fireworks {
		if err := place(fmt.Sprintf("%s firework", card.Suit(suit)), pile); err != nil {
			return err
		}
	}
	if len(seen) != len(s.Cards) {
		for id := range s.Cards {
			if _, ok := seen[id]; !ok {
				return invalid("card %q is in no zone", id)
			}
		}
	}
	return nil
}

func (s *GameState) validateFireworks() error {
	for i, pile := range s.Fireworks {
		suit := card.Suit(i)
		if len(pile) > 0 && !s.Settings.ActiveSuits.Has(suit) {
			return invalid("inactive suit %s has a firework", suit)
		}
		for pos, id := range pile {
			c := s.Cards[id]
			if c.Suit != suit {
				return invalid("card %q in %s firework is %s", id, suit, c.Suit)
			}
			if int(c.Number) != pos+1 {
				return invalid("%s firework position %d holds %d", suit, pos+1, c.Number)
			}
		}
	}
	return nil
}

func (s *GameState) validateTokens() error {
	if s.HintTokens < 0 || s.HintTokens > s.Settings.MaxHintTokens {
		return invalid("hint tokens %d outside 0..%d", s.HintTokens, s.Settings.MaxHintTokens)
	}
	if s.FuseTokensUsed < 0 || s.FuseTokensUsed > s.Settings.MaxFuseTokens {
		return invalid("fuse tokens %d outside 0..%d", s.FuseTokensUsed, s.Settings.MaxFuseTokens)
	}
	return nil
}

func (s *GameState) validateStatus() error {
	if !s.Status.Valid() {
		return invalid("unknown status %q", s.Status)
	}
	if s.Turn < 1 {
		return invalid("turn %d before the first turn", s.Turn)
	}
	if s.Status.Terminal() != (s.EndReason != ReasonNone) {
		return invalid("status %s with end reason %q", s.Status, s.EndReason)
	}
	if s.Status == StatusWon && !s.AllComplete() {
		return invalid("won with incomplete fireworks")
	}
	if s.Status == StatusLastRound {
		if s.FinalTurnsLeft < 1 || s.FinalTurnsLeft > len(s.Players) {
			return invalid("final round with %d turns left", s.FinalTurnsLeft)
		}
		if len(s.DrawDeck) > 0 {
			return invalid("final round while the deck still has %d cards", len(s.DrawDeck))
		}
	} else if s.FinalTurnsLeft != 0 {
		return invalid("final turn counter set while %s", s.Status)
	}
	return nil
}

func (s *GameState) validateLogs() error {
	ids := make(map[string]bool, len(s.Logs))
	for _, e := range s.Logs {
		if e.ID == "" || ids[e.ID] {
			return invalid("log id %q is empty or duplicated", e.ID)
		}
		ids[e.ID] = true
	}
	return nil
}

func (s *GameState) validateUI() error {
	ui := s.UI
	if s.Status.Terminal() && !ui.Empty() {
		return invalid("selection left open after the game ended")
	}
	for _, id := range ui.HighlightedCardIDs {
		if _, ok := s.Cards[id]; !ok {
			return invalid("highlighted card %q does not exist", id)
		}
	}

	hintFields := ui.HintTargetID != "" || ui.HintSuit != nil || ui.HintNumber != nil
	switch ui.PendingAction {
	case PendingNone:
		if !ui.Empty() {
			return invalid("selection fields set without a pending action")
		}
	case PendingPlay, PendingDiscard:
		if hintFields {
			return invalid("hint fields set during a %s selection", ui.PendingAction)
		}
		if ui.SelectedCardID != "" {
			current := s.CurrentPlayer()
			if !slices.Contains(current.Hand, ui.SelectedCardID) {
				return invalid("selected card %q is not in the current hand", ui.SelectedCardID)
			}
		}
	case PendingHint:
		if ui.SelectedCardID != "" {
			return invalid("card selected during a hint selection")
		}
		if ui.HintSuit != nil && ui.HintNumber != nil {
			return invalid("hint draft names both a suit and a number")
		}
		if ui.HintTargetID != "" {
			idx := s.PlayerIndex(ui.HintTargetID)
			if idx < 0 || idx == s.CurrentTurnPlayerIndex {
				return invalid("hint target %q is not another player", ui.HintTargetID)
			}
		}
	default:
		return invalid("unknown pending action %q", ui.PendingAction)
	}
	return nil
}
