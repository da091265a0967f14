package rule

import (
	"slices"

	"github.com/palemoky/fireworks/internal/apperrors"
	"github.com/palemoky/fireworks/internal/game/card"
)

// HintKind 提示类型
type HintKind string

const (
	ColorHint  HintKind = "color"
	NumberHint HintKind = "number"
)

// Hint is a single clue given to one player.
type Hint struct {
	Kind   HintKind
	Suit   card.Suit
	Number card.Number
}

// Variant carries the settings the hint model depends on.
type Variant struct {
	Active    card.SuitSet
	WildHints bool
}

// Update is the belief state a card will hold once a hint is applied.
type Update struct {
	CardID  string
	Touched bool
	Hints   card.Hints
}

// Plan is a validated, not yet applied, hint.
type Plan struct {
	Hint    Hint
	Touched []string
	Updates []Update
}

// Check validates the hint parameters against the variant.
func (h Hint) Check(v Variant) error {
	switch h.Kind {
	case ColorHint:
		if !v.Active.Has(h.Suit) {
			return apperrors.ErrInvalidSuit.WithDetail("%s is not in play", h.Suit)
		}
		if v.WildHints && h.Suit == card.Wild {
			return apperrors.ErrInvalidSuit.WithDetail("%s cannot be named", h.Suit)
		}
	case NumberHint:
		if !h.Number.Valid() {
			return apperrors.ErrInvalidNumber.WithDetail("got %d", h.Number)
		}
	default:
		return apperrors.ErrSelectionMismatch.WithDetail("unknown hint kind %q", h.Kind)
	}
	return nil
}

// Touches reports whether the hint applies to the card.
func (h Hint) Touches(c *card.Card, v Variant) bool {
	switch h.Kind {
	case ColorHint:
		if c.Suit == h.Suit {
			return true
		}
		return v.WildHints && c.Suit == card.Wild
	case NumberHint:
		return c.Number == h.Number
	}
	return false
}

// TouchedIDs lists the ids of the cards in hand the hint would touch.
func TouchedIDs(hand []*card.Card, h Hint, v Variant) []string {
	ids := []string{}
	for _, c := range hand {
		if h.Touches(c, v) {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Evaluate decides whether the hint is legal for the given hand and computes
// the resulting belief state of every card. It never mutates the hand.
func Evaluate(hand []*card.Card, h Hint, v Variant) (*Plan, error) {
	if err := h.Check(v); err != nil {
		return nil, err
	}

	plan := &Plan{Hint: h, Touched: TouchedIDs(hand, h, v)}
	if len(plan.Touched) == 0 {
		return nil, apperrors.ErrHintTouchesNothing
	}

	changed := false
	for _, c := range hand {
		touched := h.Touches(c, v)
		var (
			next card.Hints
			diff bool
			err  error
		)
		switch {
		case h.Kind == NumberHint:
			next, diff = narrowNumber(c.Hints, h.Number, touched)
		case v.WildHints:
			next, diff, err = narrowWildColor(c, h.Suit, touched, v.Active)
		default:
			next, diff = narrowColor(c.Hints, h.Suit, touched, v.Active)
		}
		if err != nil {
			return nil, err
		}
		next.RecentlyHinted = touched
		changed = changed || diff
		plan.Updates = append(plan.Updates, Update{CardID: c.ID, Touched: touched, Hints: next})
	}

	if !changed {
		return nil, apperrors.ErrHintRedundant
	}
	return plan, nil
}

// Apply writes the planned belief states onto the cards.
func (p *Plan) Apply(cards map[string]*card.Card) {
	for _, u := range p.Updates {
		if c, ok := cards[u.CardID]; ok {
			c.Hints = u.Hints.Clone()
		}
	}
}

func narrowColor(h card.Hints, s card.Suit, touched bool, active card.SuitSet) (card.Hints, bool) {
	before := h.ColorCandidates(active)
	next := h.Clone()
	if touched {
		next.Color = card.SuitPtr(s)
		next.NotColors = slices.DeleteFunc(next.NotColors, func(x card.Suit) bool { return x == s })
	} else if !slices.Contains(next.NotColors, s) {
		next.NotColors = append(next.NotColors, s)
		slices.Sort(next.NotColors)
	}
	return next, next.ColorCandidates(active) != before
}

func narrowNumber(h card.Hints, n card.Number, touched bool) (card.Hints, bool) {
	before := h.NumberCandidates()
	next := h.Clone()
	if touched {
		next.Number = card.NumberPtr(n)
		next.NotNumbers = slices.DeleteFunc(next.NotNumbers, func(x card.Number) bool { return x == n })
	} else if !slices.Contains(next.NotNumbers, n) {
		next.NotNumbers = append(next.NotNumbers, n)
		slices.Sort(next.NotNumbers)
	}
	return next, next.NumberCandidates() != before
}

// narrowWildColor evaluates a color hint against {suit, wild}: touched cards
// keep the intersection, untouched cards the difference.
func narrowWildColor(c *card.Card, s card.Suit, touched bool, active card.SuitSet) (card.Hints, bool, error) {
	before := c.Hints.ColorCandidates(active)
	mask := card.NewSuitSet(s, card.Wild)

	after := before.Minus(mask)
	if touched {
		after = before.Intersect(mask)
	}
	if after.Len() == 0 {
		return card.Hints{}, false, apperrors.ErrHintContradiction.WithDetail("%s would have no possible suit", c.ID)
	}

	next := c.Hints.Clone()
	next.NotColors = active.Minus(after).Suits()
	if only, ok := after.Only(); ok {
		next.Color = card.SuitPtr(only)
	} else {
		next.Color = nil
	}
	return next, after != before, nil
}
