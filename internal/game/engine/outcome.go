package engine

import (
	"fmt"

	"github.com/palemoky/fireworks/internal/game/state"
)

// Outcome is the result of a committed action.
type Outcome struct {
	Status          state.Status
	EndReason       state.EndReason
	Turn            int
	CurrentPlayerID string
	// Logs holds exactly the entries the action appended.
	Logs []state.LogEntry
}

// txn is one action in progress against a working copy of the state.
type txn struct {
	s           *state.GameState
	actor       int
	startStatus state.Status
	firstLog    int
	logIDs      map[string]bool
}

func newTxn(s *state.GameState) *txn {
	ids := make(map[string]bool, len(s.Logs))
	for _, e := range s.Logs {
		ids[e.ID] = true
	}
	return &txn{
		s:           s,
		actor:       s.CurrentTurnPlayerIndex,
		startStatus: s.Status,
		firstLog:    len(s.Logs),
		logIDs:      ids,
	}
}

func (tx *txn) actorPlayer() *state.Player {
	return &tx.s.Players[tx.actor]
}

// log appends an entry stamped with a fresh id and the current turn.
func (tx *txn) log(e state.LogEntry) {
	n := len(tx.s.Logs) + 1
	id := fmt.Sprintf("l%04d", n)
	for tx.logIDs[id] {
		n++
		id = fmt.Sprintf("l%04d", n)
	}
	tx.logIDs[id] = true
	e.ID = id
	e.Turn = tx.s.Turn
	tx.s.Logs = append(tx.s.Logs, e)
}

func (tx *txn) outcome() *Outcome {
	out := &Outcome{
		Status:          tx.s.Status,
		EndReason:       tx.s.EndReason,
		Turn:            tx.s.Turn,
		CurrentPlayerID: tx.s.CurrentPlayer().ID,
		Logs:            make([]state.LogEntry, 0, len(tx.s.Logs)-tx.firstLog),
	}
	for _, e := range tx.s.Logs[tx.firstLog:] {
		out.Logs = append(out.Logs, e.Clone())
	}
	return out
}
