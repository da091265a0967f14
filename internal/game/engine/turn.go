package engine

import (
	"github.com/palemoky/fireworks/internal/game/state"
	"github.com/palemoky/fireworks/internal/logger"
)

// finishTurn runs after every successful action: final-round bookkeeping,
// turn advancement, turn counter and draft reset.
func (tx *txn) finishTurn() {
	s := tx.s
	if !s.Status.Terminal() {
		switch {
		case tx.startStatus == state.StatusLastRound:
			s.FinalTurnsLeft--
			if s.FinalTurnsLeft <= 0 {
				tx.end(state.StatusFinished, state.ReasonFinalRoundOver)
			}
		case !s.Settings.EndlessMode && len(s.DrawDeck) == 0:
			s.Status = state.StatusLastRound
			s.FinalTurnsLeft = len(s.Players)
			tx.log(state.LogEntry{Kind: state.LogStatus, Status: state.StatusLastRound})
		}
	}
	if !s.Status.Terminal() {
		tx.advance()
	}
	s.Turn++
	s.UI = emptyUI()
}

// advance hands the turn to the next seat that can act. When nobody can,
// the turn still moves one seat and the game ends.
func (tx *txn) advance() {
	s := tx.s
	n := len(s.Players)
	for offset := 1; offset <= n; offset++ {
		i := (s.CurrentTurnPlayerIndex + offset) % n
		if hasLegalAction(s, i) {
			s.CurrentTurnPlayerIndex = i
			return
		}
	}
	s.CurrentTurnPlayerIndex = (s.CurrentTurnPlayerIndex + 1) % n
	tx.end(state.StatusFinished, state.ReasonNoLegalActions)
}

// hasLegalAction: holding a card always allows a play; an empty hand can
// still hint while tokens remain and someone else holds cards.
func hasLegalAction(s *state.GameState, i int) bool {
	if len(s.Players[i].Hand) > 0 {
		return true
	}
	if s.HintTokens == 0 {
		return false
	}
	return otherPlayerHoldsCards(s, i)
}

func otherPlayerHoldsCards(s *state.GameState, i int) bool {
	for j, p := range s.Players {
		if j != i && len(p.Hand) > 0 {
			return true
		}
	}
	return false
}

func (tx *txn) end(status state.Status, reason state.EndReason) {
	s := tx.s
	s.Status = status
	s.EndReason = reason
	s.FinalTurnsLeft = 0
	score := s.Score()
	tx.log(state.LogEntry{Kind: state.LogStatus, Status: status, Reason: reason, Score: &score})
	logger.LogInfo("game over: %s (%s), score %d/%d", status, reason, score, s.Settings.MaxScore())
}
