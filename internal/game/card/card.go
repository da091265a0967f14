package card

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"slices"
	"strings"
)

// Suit 定义花色
type Suit int

const (
	Red Suit = iota
	Yellow
	Green
	Blue
	White
	Multicolor // wild suit
)

// SuitCount is the size of the suit enumeration, used to size per-suit arrays.
const SuitCount = 6

// Wild is the suit that may count as any color under the wild-hint variant.
const Wild = Multicolor

// suitNames 花色名称映射表
var suitNames = [SuitCount]string{
	Red:        "red",
	Yellow:     "yellow",
	Green:      "green",
	Blue:       "blue",
	White:      "white",
	Multicolor: "multicolor",
}

func (s Suit) String() string {
	if s.Valid() {
		return suitNames[s]
	}
	return fmt.Sprintf("suit(%d)", int(s))
}

// Valid reports whether s is part of the enumeration.
func (s Suit) Valid() bool {
	return s >= Red && s <= Multicolor
}

// ParseSuit accepts a suit name, case-insensitive.
func ParseSuit(name string) (Suit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range suitNames {
		if n == name {
			return Suit(i), nil
		}
	}
	return -1, fmt.Errorf("unknown suit %q", name)
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown suit %d", int(s))
	}
	return []byte(suitNames[s]), nil
}

func (s *Suit) UnmarshalText(text []byte) error {
	parsed, err := ParseSuit(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Number 定义点数 (1..5)
type Number int

const (
	MinNumber Number = 1
	MaxNumber Number = 5
)

// Valid reports whether n is within 1..5.
func (n Number) Valid() bool {
	return n >= MinNumber && n <= MaxNumber
}

// SuitSet is a bitmask over Suit.
type SuitSet uint8

// BaseSuits are the five suits every configuration plays with.
const BaseSuits SuitSet = 1<<Red | 1<<Yellow | 1<<Green | 1<<Blue | 1<<White

// NewSuitSet builds a set from the given suits.
func NewSuitSet(suits ...Suit) SuitSet {
	var set SuitSet
	for _, s := range suits {
		set = set.Add(s)
	}
	return set
}

func (set SuitSet) Has(s Suit) bool {
	return s.Valid() && set&(1<<s) != 0
}

func (set SuitSet) Add(s Suit) SuitSet {
	if !s.Valid() {
		return set
	}
	return set | 1<<s
}

func (set SuitSet) Remove(s Suit) SuitSet {
	if !s.Valid() {
		return set
	}
	return set &^ (1 << s)
}

func (set SuitSet) Intersect(other SuitSet) SuitSet { return set & other }

func (set SuitSet) Minus(other SuitSet) SuitSet { return set &^ other }

func (set SuitSet) Len() int { return bits.OnesCount8(uint8(set)) }

// Only returns the single member of a one-element set.
func (set SuitSet) Only() (Suit, bool) {
	if set.Len() != 1 {
		return -1, false
	}
	return Suit(bits.TrailingZeros8(uint8(set))), true
}

// Suits lists the members in enum order.
func (set SuitSet) Suits() []Suit {
	suits := make([]Suit, 0, set.Len())
	for s := Red; s <= Multicolor; s++ {
		if set.Has(s) {
			suits = append(suits, s)
		}
	}
	return suits
}

func (set SuitSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(set.Suits())
}

func (set *SuitSet) UnmarshalJSON(data []byte) error {
	var suits []Suit
	if err := json.Unmarshal(data, &suits); err != nil {
		return err
	}
	*set = NewSuitSet(suits...)
	return nil
}

// NumberSet is a bitmask over Number.
type NumberSet uint8

// AllNumbers holds 1..5.
const AllNumbers NumberSet = 1<<1 | 1<<2 | 1<<3 | 1<<4 | 1<<5

func (set NumberSet) Has(n Number) bool {
	return n.Valid() && set&(1<<n) != 0
}

func (set NumberSet) Add(n Number) NumberSet {
	if !n.Valid() {
		return set
	}
	return set | 1<<n
}

func (set NumberSet) Remove(n Number) NumberSet {
	if !n.Valid() {
		return set
	}
	return set &^ (1 << n)
}

func (set NumberSet) Len() int { return bits.OnesCount8(uint8(set)) }

// Hints is the public belief state attached to a card.
type Hints struct {
	Color          *Suit    `json:"color"`
	Number         *Number  `json:"number"`
	NotColors      []Suit   `json:"notColors"`
	NotNumbers     []Number `json:"notNumbers"`
	RecentlyHinted bool     `json:"recentlyHinted"`
}

// NewHints returns an empty belief state.
func NewHints() Hints {
	return Hints{NotColors: []Suit{}, NotNumbers: []Number{}}
}

// Clone deep-copies the hint metadata.
func (h Hints) Clone() Hints {
	out := Hints{
		NotColors:      slices.Clone(h.NotColors),
		NotNumbers:     slices.Clone(h.NotNumbers),
		RecentlyHinted: h.RecentlyHinted,
	}
	if h.Color != nil {
		c := *h.Color
		out.Color = &c
	}
	if h.Number != nil {
		n := *h.Number
		out.Number = &n
	}
	return out
}

// ColorCandidates is the set of suits the card may still be, given the
// active suits of the game.
func (h Hints) ColorCandidates(active SuitSet) SuitSet {
	if h.Color != nil {
		return NewSuitSet(*h.Color)
	}
	return active.Minus(NewSuitSet(h.NotColors...))
}

// NumberCandidates is the set of numbers the card may still be.
func (h Hints) NumberCandidates() NumberSet {
	if h.Number != nil {
		var set NumberSet
		return set.Add(*h.Number)
	}
	set := AllNumbers
	for _, n := range h.NotNumbers {
		set = set.Remove(n)
	}
	return set
}

// Card 定义一张牌
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Number Number `json:"number"`
	Hints  Hints  `json:"hints"`
}

// Clone deep-copies the card.
func (c *Card) Clone() *Card {
	return &Card{
		ID:     c.ID,
		Suit:   c.Suit,
		Number: c.Number,
		Hints:  c.Hints.Clone(),
	}
}

func (c *Card) String() string {
	return fmt.Sprintf("%s %s%d", c.ID, c.Suit, c.Number)
}

// SuitPtr and NumberPtr are small helpers for optional fields.
func SuitPtr(s Suit) *Suit { return &s }

func NumberPtr(n Number) *Number { return &n }
