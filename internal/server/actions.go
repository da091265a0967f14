package server

import (
	"github.com/palemoky/fireworks/internal/game/engine"
	"github.com/palemoky/fireworks/internal/protocol"
	"github.com/palemoky/fireworks/internal/protocol/codec"
	"github.com/palemoky/fireworks/internal/protocol/convert"
)

// actionFunc 统一的动作处理函数签名. Selection steps return a nil outcome.
type actionFunc func(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error)

var actionHandlers = map[protocol.MessageType]actionFunc{
	// 直接动作
	protocol.MsgPlayCard:       handlePlayCard,
	protocol.MsgDiscardCard:    handleDiscardCard,
	protocol.MsgGiveColorHint:  handleColorHint,
	protocol.MsgGiveNumberHint: handleNumberHint,

	// 分步选择
	protocol.MsgBeginPlaySelection:    step((*engine.Engine).BeginPlaySelection),
	protocol.MsgBeginDiscardSelection: step((*engine.Engine).BeginDiscardSelection),
	protocol.MsgBeginHintSelection:    step((*engine.Engine).BeginHintSelection),
	protocol.MsgCancelSelection:       step((*engine.Engine).CancelSelection),
	protocol.MsgSelectCard:            handleSelectCard,
	protocol.MsgSelectHintTarget:      handleSelectHintTarget,
	protocol.MsgSelectHintColor:       handleSelectHintColor,
	protocol.MsgSelectHintNumber:      handleSelectHintNumber,
	protocol.MsgConfirmSelection: func(e *engine.Engine, _ *protocol.Message) (*engine.Outcome, error) {
		return e.ConfirmSelection()
	},
}

// step adapts a payload-less selection call.
func step(fn func(*engine.Engine) error) actionFunc {
	return func(e *engine.Engine, _ *protocol.Message) (*engine.Outcome, error) {
		return nil, fn(e)
	}
}

func handlePlayCard(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.CardPayload](msg)
	if err != nil {
		return nil, err
	}
	return e.PlayCard(p.CardID)
}

func handleDiscardCard(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.CardPayload](msg)
	if err != nil {
		return nil, err
	}
	return e.DiscardCard(p.CardID)
}

func handleColorHint(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.ColorHintPayload](msg)
	if err != nil {
		return nil, err
	}
	suit, err := convert.SuitFromWire(p.Suit)
	if err != nil {
		return nil, err
	}
	return e.GiveColorHint(p.TargetID, suit)
}

func handleNumberHint(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.NumberHintPayload](msg)
	if err != nil {
		return nil, err
	}
	number, err := convert.NumberFromWire(p.Number)
	if err != nil {
		return nil, err
	}
	return e.GiveNumberHint(p.TargetID, number)
}

func handleSelectCard(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.CardPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, e.SelectCard(p.CardID)
}

func handleSelectHintTarget(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.TargetPayload](msg)
	if err != nil {
		return nil, err
	}
	return nil, e.SelectHintTarget(p.TargetID)
}

func handleSelectHintColor(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.SuitPayload](msg)
	if err != nil {
		return nil, err
	}
	suit, err := convert.SuitFromWire(p.Suit)
	if err != nil {
		return nil, err
	}
	return nil, e.SelectHintColor(suit)
}

func handleSelectHintNumber(e *engine.Engine, msg *protocol.Message) (*engine.Outcome, error) {
	p, err := codec.ParsePayload[protocol.NumberPayload](msg)
	if err != nil {
		return nil, err
	}
	number, err := convert.NumberFromWire(p.Number)
	if err != nil {
		return nil, err
	}
	return nil, e.SelectHintNumber(number)
}
