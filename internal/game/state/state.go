package state

import (
	"github.com/palemoky/fireworks/internal/game/card"
)

// Status 游戏状态
type Status string

const (
	StatusActive    Status = "active"
	StatusLastRound Status = "last_round"
	StatusWon       Status = "won"
	StatusLost      Status = "lost"
	StatusFinished  Status = "finished"
)

// Terminal reports whether no further action can be taken.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost || s == StatusFinished
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusLastRound, StatusWon, StatusLost, StatusFinished:
		return true
	}
	return false
}

// EndReason 游戏结束原因
type EndReason string

const (
	ReasonNone              EndReason = ""
	ReasonAllComplete       EndReason = "all_fireworks_complete"
	ReasonFuseLimit         EndReason = "fuse_limit"
	ReasonIndispensableLost EndReason = "indispensable_card_lost"
	ReasonFinalRoundOver    EndReason = "final_round_complete"
	ReasonNoLegalActions    EndReason = "no_legal_actions"
)

// Player 玩家
type Player struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Hand []string `json:"hand"`
}

// Settings is the immutable per-game configuration.
type Settings struct {
	IncludeMulticolor   bool         `json:"includeMulticolor"`
	MulticolorShortDeck bool         `json:"multicolorShortDeck"`
	MulticolorWildHints bool         `json:"multicolorWildHints"`
	EndlessMode         bool         `json:"endlessMode"`
	ActiveSuits         card.SuitSet `json:"activeSuits"`
	MaxHintTokens       int          `json:"maxHintTokens"`
	MaxFuseTokens       int          `json:"maxFuseTokens"`
	HandSize            int          `json:"handSize"`
}

// ExpectedSuits derives the active suits from the multicolor flag.
func (s Settings) ExpectedSuits() card.SuitSet {
	if s.IncludeMulticolor {
		return card.BaseSuits.Add(card.Multicolor)
	}
	return card.BaseSuits
}

// CopyCount is the number of copies of (suit, number) in this configuration.
func (s Settings) CopyCount(suit card.Suit, n card.Number) int {
	if !s.ActiveSuits.Has(suit) {
		return 0
	}
	return card.CopyCount(suit, n, s.MulticolorShortDeck)
}

// MaxScore is the score of a perfect game.
func (s Settings) MaxScore() int {
	return s.ActiveSuits.Len() * int(card.MaxNumber)
}

// HandSizeFor returns the hand size for a player count.
func HandSizeFor(players int) int {
	if players <= 3 {
		return 5
	}
	return 4
}

// Fireworks holds one ascending pile of card ids per suit.
type Fireworks [card.SuitCount][]string

// LogKind 日志类型
type LogKind string

const (
	LogHint    LogKind = "hint"
	LogPlay    LogKind = "play"
	LogDiscard LogKind = "discard"
	LogDraw    LogKind = "draw"
	LogStatus  LogKind = "status"
)

// LogEntry is one structured, append-only game log record.
type LogEntry struct {
	ID       string       `json:"id"`
	Turn     int          `json:"turn"`
	Kind     LogKind      `json:"type"`
	ActorID  string       `json:"actorId,omitempty"`
	TargetID string       `json:"targetId,omitempty"`
	CardID   string       `json:"cardId,omitempty"`
	CardIDs  []string     `json:"cardIds,omitempty"`
	HintKind string       `json:"hintType,omitempty"`
	Suit     *card.Suit   `json:"suit,omitempty"`
	Number   *card.Number `json:"number,omitempty"`
	Success  *bool        `json:"success,omitempty"`

	HintTokensDelta int `json:"hintTokensDelta,omitempty"`
	FuseTokensDelta int `json:"fuseTokensDelta,omitempty"`

	Status Status    `json:"status,omitempty"`
	Reason EndReason `json:"reason,omitempty"`
	Score  *int      `json:"score,omitempty"`
}

// PendingAction is the kind of multi-step selection in progress.
type PendingAction string

const (
	PendingNone    PendingAction = ""
	PendingPlay    PendingAction = "play"
	PendingDiscard PendingAction = "discard"
	PendingHint    PendingAction = "hint"
)

// UIState is the selection draft. It travels with the snapshot so a draft
// survives a resync, but it is not part of the rules.
type UIState struct {
	PendingAction      PendingAction `json:"pendingAction"`
	SelectedCardID     string        `json:"selectedCardId"`
	HintTargetID       string        `json:"hintTargetId"`
	HintSuit           *card.Suit    `json:"hintSuit"`
	HintNumber         *card.Number  `json:"hintNumber"`
	HighlightedCardIDs []string      `json:"highlightedCardIds"`
}

// Empty reports whether no draft field is set.
func (u UIState) Empty() bool {
	return u.PendingAction == PendingNone && u.SelectedCardID == "" && u.HintTargetID == "" &&
		u.HintSuit == nil && u.HintNumber == nil && len(u.HighlightedCardIDs) == 0
}

// GameState 游戏状态 (the whole aggregate, owned by one engine)
type GameState struct {
	Players                []Player              `json:"players"`
	CurrentTurnPlayerIndex int                   `json:"currentTurnPlayerIndex"`
	Cards                  map[string]*card.Card `json:"cards"`
	DrawDeck               []string              `json:"drawDeck"`
	DiscardPile            []string              `json:"discardPile"`
	Fireworks              Fireworks             `json:"fireworks"`
	HintTokens             int                   `json:"hintTokens"`
	FuseTokensUsed         int                   `json:"fuseTokensUsed"`
	Status                 Status                `json:"status"`
	EndReason              EndReason             `json:"endReason,omitempty"`
	Turn                   int                   `json:"turn"`
	FinalTurnsLeft         int                   `json:"finalTurnsLeft,omitempty"`
	Logs                   []LogEntry            `json:"logs"`
	UI                     UIState               `json:"ui"`
	Settings               Settings              `json:"settings"`
}

// Payload wraps a snapshot for restore.
type Payload struct {
	Version int        `json:"version"`
	State   *GameState `json:"state"`
}

// PayloadVersion is the current snapshot format version.
const PayloadVersion = 1

// CurrentPlayer returns the player whose turn it is.
func (s *GameState) CurrentPlayer() *Player {
	if s.CurrentTurnPlayerIndex < 0 || s.CurrentTurnPlayerIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.CurrentTurnPlayerIndex]
}

// PlayerIndex finds a seat by player id, or -1.
func (s *GameState) PlayerIndex(id string) int {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// HandCards resolves a player's hand to cards, in slot order.
func (s *GameState) HandCards(p *Player) []*card.Card {
	cards := make([]*card.Card, 0, len(p.Hand))
	for _, id := range p.Hand {
		if c, ok := s.Cards[id]; ok {
			cards = append(cards, c)
		}
	}
	return cards
}

// Heights returns the firework height of each suit.
func (s *GameState) Heights() [card.SuitCount]int {
	var h [card.SuitCount]int
	for i, pile := range s.Fireworks {
		h[i] = len(pile)
	}
	return h
}

// Score sums firework heights over the active suits.
func (s *GameState) Score() int {
	score := 0
	for _, suit := range s.Settings.ActiveSuits.Suits() {
		score += len(s.Fireworks[suit])
	}
	return score
}

// AllComplete reports whether every active suit reached 5.
func (s *GameState) AllComplete() bool {
	for _, suit := range s.Settings.ActiveSuits.Suits() {
		if len(s.Fireworks[suit]) != int(card.MaxNumber) {
			return false
		}
	}
	return true
}
