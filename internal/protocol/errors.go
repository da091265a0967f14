package protocol

// 错误码
const (
	ErrCodeUnknown     = 1000
	ErrCodeInvalidMsg  = 1001
	ErrCodeNotYourTurn = 1002

	// table / configuration
	ErrCodeTableNotFound = 2001
	ErrCodeInvalidConfig = 2002

	// rule violations
	ErrCodeGameOver            = 3001
	ErrCodeUnknownCard         = 3002
	ErrCodeCardNotInHand       = 3003
	ErrCodeUnknownPlayer       = 3004
	ErrCodeHintTokensFull      = 3005
	ErrCodeNoHintTokens        = 3006
	ErrCodeSelfHint            = 3007
	ErrCodeInvalidSuit         = 3008
	ErrCodeInvalidNumber       = 3009
	ErrCodeHintTouchesNothing  = 3010
	ErrCodeHintRedundant       = 3011
	ErrCodeHintContradiction   = 3012
	ErrCodeEmptyHand           = 3013
	ErrCodeNoHintTarget        = 3014
	ErrCodeNoPendingSelection  = 3015
	ErrCodeIncompleteSelection = 3016
	ErrCodeSelectionMismatch   = 3017

	// invariant violations
	ErrCodeInvalidState     = 4001
	ErrCodeMalformedPayload = 4002
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:             "unknown error",
	ErrCodeInvalidMsg:          "invalid message",
	ErrCodeNotYourTurn:         "it is not your turn",
	ErrCodeTableNotFound:       "table not found",
	ErrCodeInvalidConfig:       "invalid game configuration",
	ErrCodeGameOver:            "the game is over",
	ErrCodeUnknownCard:         "unknown card",
	ErrCodeCardNotInHand:       "card is not in the current player's hand",
	ErrCodeUnknownPlayer:       "unknown player",
	ErrCodeHintTokensFull:      "cannot discard while hint tokens are full",
	ErrCodeNoHintTokens:        "no hint tokens left",
	ErrCodeSelfHint:            "cannot give a hint to yourself",
	ErrCodeInvalidSuit:         "suit cannot be hinted",
	ErrCodeInvalidNumber:       "number must be between 1 and 5",
	ErrCodeHintTouchesNothing:  "hint does not touch any card",
	ErrCodeHintRedundant:       "hint would be redundant",
	ErrCodeHintContradiction:   "hint contradicts the recorded hints",
	ErrCodeEmptyHand:           "hand is empty",
	ErrCodeNoHintTarget:        "no other player holds cards",
	ErrCodeNoPendingSelection:  "no selection in progress",
	ErrCodeIncompleteSelection: "selection is incomplete",
	ErrCodeSelectionMismatch:   "selection does not apply to the pending action",
	ErrCodeInvalidState:        "invalid game state",
	ErrCodeMalformedPayload:    "malformed state payload",
}
