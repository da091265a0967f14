package convert

import (
	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/game/state"
	"github.com/palemoky/fireworks/internal/protocol"
)

// SuitFromWire 将协议中的颜色名转换为 card.Suit
func SuitFromWire(name string) (card.Suit, error) {
	s, err := card.ParseSuit(name)
	if err != nil {
		return 0, apperrors.ErrInvalidSuit.WithDetail("%q", name)
	}
	return s, nil
}

// NumberFromWire 将协议中的数字转换为 card.Number
func NumberFromWire(n int) (card.Number, error) {
	num := card.Number(n)
	if !num.Valid() {
		return 0, apperrors.ErrInvalidNumber.WithDetail("got %d", n)
	}
	return num, nil
}

// PlayersToConfig 将 []protocol.PlayerInfo 转换为引擎的玩家配置
func PlayersToConfig(players []protocol.PlayerInfo) []engine.PlayerConfig {
	out := make([]engine.PlayerConfig, len(players))
	for i, p := range players {
		out[i] = engine.PlayerConfig{ID: p.ID, Name: p.Name}
	}
	return out
}

// StatePlayersToInfo 将牌局中的玩家转换为 []protocol.PlayerInfo
func StatePlayersToInfo(players []state.Player) []protocol.PlayerInfo {
	out := make([]protocol.PlayerInfo, len(players))
	for i, p := range players {
		out[i] = protocol.PlayerInfo{ID: p.ID, Name: p.Name}
	}
	return out
}

// CreateTableToConfig 将创建牌桌请求转换为引擎配置. Fields the request leaves
// unset are taken from defaults.
func CreateTableToConfig(p *protocol.CreateTablePayload, defaults engine.GameConfig) engine.GameConfig {
	cfg := defaults
	cfg.Players = PlayersToConfig(p.Players)
	cfg.StartingPlayerIndex = p.StartingPlayerIndex
	cfg.Seed = p.Seed
	cfg.Deck = nil

	if p.IncludeMulticolor != nil {
		cfg.IncludeMulticolor = *p.IncludeMulticolor
	}
	// Default variants follow the multicolor suit; explicit ones are checked
	// by the engine.
	if !cfg.IncludeMulticolor {
		cfg.MulticolorShortDeck = false
		cfg.MulticolorWildHints = false
	}
	if p.MulticolorShortDeck != nil {
		cfg.MulticolorShortDeck = *p.MulticolorShortDeck
	}
	if p.MulticolorWildHints != nil {
		cfg.MulticolorWildHints = *p.MulticolorWildHints
	}
	if p.EndlessMode != nil {
		cfg.EndlessMode = *p.EndlessMode
	}
	if p.MaxHintTokens != nil {
		cfg.MaxHintTokens = *p.MaxHintTokens
	}
	if p.MaxFuseTokens != nil {
		cfg.MaxFuseTokens = *p.MaxFuseTokens
	}
	return cfg
}

// OutcomeToInfo 将动作结果转换为 protocol.OutcomeInfo
func OutcomeToInfo(actorID string, out *engine.Outcome) *protocol.OutcomeInfo {
	if out == nil {
		return nil
	}
	return &protocol.OutcomeInfo{
		ActorID:         actorID,
		Status:          string(out.Status),
		EndReason:       string(out.EndReason),
		Turn:            out.Turn,
		CurrentPlayerID: out.CurrentPlayerID,
	}
}
