package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳 ping

	// 直接动作
	MsgPlayCard       MessageType = "play_card"        // 打出一张牌
	MsgDiscardCard    MessageType = "discard_card"     // 弃掉一张牌
	MsgGiveColorHint  MessageType = "give_color_hint"  // 颜色提示
	MsgGiveNumberHint MessageType = "give_number_hint" // 数字提示

	// 分步选择
	MsgBeginPlaySelection    MessageType = "begin_play_selection"
	MsgBeginDiscardSelection MessageType = "begin_discard_selection"
	MsgBeginHintSelection    MessageType = "begin_hint_selection"
	MsgSelectCard            MessageType = "select_card"
	MsgSelectHintTarget      MessageType = "select_hint_target"
	MsgSelectHintColor       MessageType = "select_hint_color"
	MsgSelectHintNumber      MessageType = "select_hint_number"
	MsgConfirmSelection      MessageType = "confirm_selection"
	MsgCancelSelection       MessageType = "cancel_selection"
)

// 服务端 → 客户端 消息类型
const (
	MsgPong  MessageType = "pong"  // 心跳 pong
	MsgState MessageType = "state" // 玩家视角的牌局状态
	MsgError MessageType = "error" // 错误消息
)

// IsAction reports whether the message changes the game, as opposed to
// connection housekeeping.
func (t MessageType) IsAction() bool {
	switch t {
	case MsgPlayCard, MsgDiscardCard, MsgGiveColorHint, MsgGiveNumberHint,
		MsgBeginPlaySelection, MsgBeginDiscardSelection, MsgBeginHintSelection,
		MsgSelectCard, MsgSelectHintTarget, MsgSelectHintColor, MsgSelectHintNumber,
		MsgConfirmSelection, MsgCancelSelection:
		return true
	}
	return false
}
