package engine

import (
	"slices"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/rule"
	"github.com/palemoky/fireworks/internal/game/state"
)

// BeginPlaySelection starts choosing a card to play.
func (e *Engine) BeginPlaySelection() error {
	return e.draft(func(s *state.GameState) error {
		if len(s.CurrentPlayer().Hand) == 0 {
			return apperrors.ErrEmptyHand
		}
		s.UI = state.UIState{PendingAction: state.PendingPlay}
		return nil
	})
}

// BeginDiscardSelection starts choosing a card to discard.
func (e *Engine) BeginDiscardSelection() error {
	return e.draft(func(s *state.GameState) error {
		if len(s.CurrentPlayer().Hand) == 0 {
			return apperrors.ErrEmptyHand
		}
		if s.HintTokens >= s.Settings.MaxHintTokens {
			return apperrors.ErrHintTokensFull
		}
		s.UI = state.UIState{PendingAction: state.PendingDiscard}
		return nil
	})
}

// BeginHintSelection starts building a hint.
func (e *Engine) BeginHintSelection() error {
	return e.draft(func(s *state.GameState) error {
		if s.HintTokens <= 0 {
			return apperrors.ErrNoHintTokens
		}
		if !otherPlayerHoldsCards(s, s.CurrentTurnPlayerIndex) {
			return apperrors.ErrNoHintTarget
		}
		s.UI = state.UIState{PendingAction: state.PendingHint}
		return nil
	})
}

// SelectCard picks the card for a pending play or discard.
func (e *Engine) SelectCard(cardID string) error {
	return e.draft(func(s *state.GameState) error {
		switch s.UI.PendingAction {
		case state.PendingNone:
			return apperrors.ErrNoPendingSelection
		case state.PendingHint:
			return apperrors.ErrSelectionMismatch.WithDetail("hints select a player, not a card")
		}
		if _, ok := s.Cards[cardID]; !ok {
			return apperrors.ErrUnknownCard.WithDetail("%q", cardID)
		}
		if !slices.Contains(s.CurrentPlayer().Hand, cardID) {
			return apperrors.ErrCardNotInHand.WithDetail("%q", cardID)
		}
		s.UI.SelectedCardID = cardID
		return nil
	})
}

// SelectHintTarget picks the player a pending hint goes to.
func (e *Engine) SelectHintTarget(targetID string) error {
	return e.draft(func(s *state.GameState) error {
		if err := requireHintDraft(s); err != nil {
			return err
		}
		idx := s.PlayerIndex(targetID)
		if idx < 0 {
			return apperrors.ErrUnknownPlayer.WithDetail("%q", targetID)
		}
		if idx == s.CurrentTurnPlayerIndex {
			return apperrors.ErrSelfHint
		}
		s.UI.HintTargetID = targetID
		return nil
	})
}

// SelectHintColor sets the hint to name a suit.
func (e *Engine) SelectHintColor(suit card.Suit) error {
	return e.draft(func(s *state.GameState) error {
		if err := requireHintDraft(s); err != nil {
			return err
		}
		h := rule.Hint{Kind: rule.ColorHint, Suit: suit}
		if err := h.Check(variantOf(s.Settings)); err != nil {
			return err
		}
		s.UI.HintSuit = card.SuitPtr(suit)
		s.UI.HintNumber = nil
		return nil
	})
}

// SelectHintNumber sets the hint to name a number.
func (e *Engine) SelectHintNumber(number card.Number) error {
	return e.draft(func(s *state.GameState) error {
		if err := requireHintDraft(s); err != nil {
			return err
		}
		h := rule.Hint{Kind: rule.NumberHint, Number: number}
		if err := h.Check(variantOf(s.Settings)); err != nil {
			return err
		}
		s.UI.HintNumber = card.NumberPtr(number)
		s.UI.HintSuit = nil
		return nil
	})
}

// ConfirmSelection performs the drafted action through the same path as the
// direct action methods.
func (e *Engine) ConfirmSelection() (*Outcome, error) {
	ui := e.state.UI
	switch ui.PendingAction {
	case state.PendingNone:
		return nil, apperrors.ErrNoPendingSelection
	case state.PendingPlay, state.PendingDiscard:
		if ui.SelectedCardID == "" {
			return nil, apperrors.ErrIncompleteSelection.WithDetail("no card selected")
		}
		if ui.PendingAction == state.PendingPlay {
			return e.PlayCard(ui.SelectedCardID)
		}
		return e.DiscardCard(ui.SelectedCardID)
	case state.PendingHint:
		if ui.HintTargetID == "" {
			return nil, apperrors.ErrIncompleteSelection.WithDetail("no hint target")
		}
		switch {
		case ui.HintSuit != nil:
			return e.GiveColorHint(ui.HintTargetID, *ui.HintSuit)
		case ui.HintNumber != nil:
			return e.GiveNumberHint(ui.HintTargetID, *ui.HintNumber)
		}
		return nil, apperrors.ErrIncompleteSelection.WithDetail("no suit or number chosen")
	}
	return nil, apperrors.ErrSelectionMismatch.WithDetail("unknown pending action %q", ui.PendingAction)
}

// CancelSelection drops the draft. Cancelling with nothing pending is a no-op.
func (e *Engine) CancelSelection() error {
	if e.state.UI.Empty() {
		return nil
	}
	return e.draft(func(s *state.GameState) error {
		s.UI = emptyUI()
		return nil
	})
}

// UI returns a copy of the current selection draft.
func (e *Engine) UI() state.UIState {
	return e.state.UI.Clone()
}

func requireHintDraft(s *state.GameState) error {
	switch s.UI.PendingAction {
	case state.PendingHint:
		return nil
	case state.PendingNone:
		return apperrors.ErrNoPendingSelection
	}
	return apperrors.ErrSelectionMismatch.WithDetail("a %s selection is in progress", s.UI.PendingAction)
}

// refreshHighlights recomputes the live preview for the draft: the selected
// card, or every card the drafted hint would touch.
func refreshHighlights(s *state.GameState) {
	ui := &s.UI
	ui.HighlightedCardIDs = []string{}
	switch ui.PendingAction {
	case state.PendingPlay, state.PendingDiscard:
		if ui.SelectedCardID != "" {
			ui.HighlightedCardIDs = []string{ui.SelectedCardID}
		}
	case state.PendingHint:
		idx := s.PlayerIndex(ui.HintTargetID)
		if idx < 0 {
			return
		}
		var h rule.Hint
		switch {
		case ui.HintSuit != nil:
			h = rule.Hint{Kind: rule.ColorHint, Suit: *ui.HintSuit}
		case ui.HintNumber != nil:
			h = rule.Hint{Kind: rule.NumberHint, Number: *ui.HintNumber}
		default:
			return
		}
		ui.HighlightedCardIDs = rule.TouchedIDs(s.HandCards(&s.Players[idx]), h, variantOf(s.Settings))
	}
}
