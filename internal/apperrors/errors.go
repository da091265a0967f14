package apperrors

import (
	"errors"
	"fmt"

	"github.com/palemoky/fireworks/internal/protocol"
)

// Kind separates expected rule rejections from corrupted-state failures.
type Kind int

const (
	// KindRule is a rule violation a UI should turn into feedback.
	KindRule Kind = iota
	// KindInvariant means the state object is corrupt or the caller has a bug.
	KindInvariant
)

func (k Kind) String() string {
	if k == KindInvariant {
		return "invariant"
	}
	return "rule"
}

// GameError 游戏错误
type GameError struct {
	Code    int
	Kind    Kind
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// Is matches any GameError with the same code, so detailed copies still
// satisfy errors.Is against the sentinel.
func (e *GameError) Is(target error) bool {
	var t *GameError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithDetail returns a copy of e whose message carries extra context.
func (e *GameError) WithDetail(format string, args ...any) *GameError {
	return &GameError{
		Code:    e.Code,
		Kind:    e.Kind,
		Message: e.Message + ": " + fmt.Sprintf(format, args...),
	}
}

func rule(code int) *GameError {
	return &GameError{Code: code, Kind: KindRule, Message: protocol.ErrorMessages[code]}
}

func invariant(code int) *GameError {
	return &GameError{Code: code, Kind: KindInvariant, Message: protocol.ErrorMessages[code]}
}

// 预定义错误
var (
	ErrInvalidMsg          = rule(protocol.ErrCodeInvalidMsg)
	ErrNotYourTurn         = rule(protocol.ErrCodeNotYourTurn)
	ErrTableNotFound       = rule(protocol.ErrCodeTableNotFound)
	ErrInvalidConfig       = rule(protocol.ErrCodeInvalidConfig)
	ErrGameOver            = rule(protocol.ErrCodeGameOver)
	ErrUnknownCard         = rule(protocol.ErrCodeUnknownCard)
	ErrCardNotInHand       = rule(protocol.ErrCodeCardNotInHand)
	ErrUnknownPlayer       = rule(protocol.ErrCodeUnknownPlayer)
	ErrHintTokensFull      = rule(protocol.ErrCodeHintTokensFull)
	ErrNoHintTokens        = rule(protocol.ErrCodeNoHintTokens)
	ErrSelfHint            = rule(protocol.ErrCodeSelfHint)
	ErrInvalidSuit         = rule(protocol.ErrCodeInvalidSuit)
	ErrInvalidNumber       = rule(protocol.ErrCodeInvalidNumber)
	ErrHintTouchesNothing  = rule(protocol.ErrCodeHintTouchesNothing)
	ErrHintRedundant       = rule(protocol.ErrCodeHintRedundant)
	ErrHintContradiction   = rule(protocol.ErrCodeHintContradiction)
	ErrEmptyHand           = rule(protocol.ErrCodeEmptyHand)
	ErrNoHintTarget        = rule(protocol.ErrCodeNoHintTarget)
	ErrNoPendingSelection  = rule(protocol.ErrCodeNoPendingSelection)
	ErrIncompleteSelection = rule(protocol.ErrCodeIncompleteSelection)
	ErrSelectionMismatch   = rule(protocol.ErrCodeSelectionMismatch)

	ErrInvalidState     = invariant(protocol.ErrCodeInvalidState)
	ErrMalformedPayload = invariant(protocol.ErrCodeMalformedPayload)
)

// CodeOf extracts the error code, or ErrCodeUnknown for foreign errors.
func CodeOf(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return protocol.ErrCodeUnknown
}

// IsRuleViolation reports whether err is an expected rule rejection.
func IsRuleViolation(err error) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge.Kind == KindRule
}

// IsInvariantViolation reports whether err signals a corrupted state.
func IsInvariantViolation(err error) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge.Kind == KindInvariant
}
