package protocol

// --- 客户端请求 Payloads ---

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// CardPayload 指定一张牌 (play_card / discard_card / select_card)
type CardPayload struct {
	CardID string `json:"card_id"`
}

// ColorHintPayload 颜色提示请求
type ColorHintPayload struct {
	TargetID string `json:"target_id"`
	Suit     string `json:"suit"`
}

// NumberHintPayload 数字提示请求
type NumberHintPayload struct {
	TargetID string `json:"target_id"`
	Number   int    `json:"number"`
}

// TargetPayload 选择提示对象
type TargetPayload struct {
	TargetID string `json:"target_id"`
}

// SuitPayload 选择提示颜色
type SuitPayload struct {
	Suit string `json:"suit"`
}

// NumberPayload 选择提示数字
type NumberPayload struct {
	Number int `json:"number"`
}

// --- HTTP 请求 ---

// PlayerInfo 玩家信息
type PlayerInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CreateTablePayload 创建牌桌请求. Nil fields fall back to the server defaults.
type CreateTablePayload struct {
	Players             []PlayerInfo `json:"players"`
	IncludeMulticolor   *bool        `json:"include_multicolor,omitempty"`
	MulticolorShortDeck *bool        `json:"multicolor_short_deck,omitempty"`
	MulticolorWildHints *bool        `json:"multicolor_wild_hints,omitempty"`
	EndlessMode         *bool        `json:"endless_mode,omitempty"`
	MaxHintTokens       *int         `json:"max_hint_tokens,omitempty"`
	MaxFuseTokens       *int         `json:"max_fuse_tokens,omitempty"`
	StartingPlayerIndex int          `json:"starting_player_index"`
	Seed                *int64       `json:"seed,omitempty"`
}

// --- 服务端响应 Payloads ---

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// TableCreatedPayload 牌桌创建成功
type TableCreatedPayload struct {
	TableID string       `json:"table_id"`
	Players []PlayerInfo `json:"players"`
}

// OutcomeInfo 上一个动作的结果
type OutcomeInfo struct {
	ActorID         string `json:"actor_id"`
	Status          string `json:"status"`
	EndReason       string `json:"end_reason,omitempty"`
	Turn            int    `json:"turn"`
	CurrentPlayerID string `json:"current_player_id"`
}

// StatePayload 推送给单个玩家的牌局视角
type StatePayload struct {
	TableID string       `json:"table_id"`
	Outcome *OutcomeInfo `json:"outcome,omitempty"`
	View    any          `json:"view"`
}

// TableListPayload 已保存的牌桌列表
type TableListPayload struct {
	Tables []string `json:"tables"`
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HealthPayload 健康检查响应
type HealthPayload struct {
	Status string `json:"status"`
	Tables int    `json:"tables"`
}
