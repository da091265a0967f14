package card

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// LCG is a 32-bit linear congruential generator. Its output sequence depends
// only on the seed, so seeded decks are reproducible across runs and hosts.
type LCG struct {
	state uint32
}

const (
	lcgMultiplier = 1664525
	lcgIncrement  = 1013904223
)

// NewLCG seeds a generator. Only the low 32 bits of the seed are used.
func NewLCG(seed int64) *LCG {
	return &LCG{state: uint32(seed)}
}

// Next advances the generator and returns a value in [0, 1).
func (g *LCG) Next() float64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return float64(g.state) / (1 << 32)
}

// Intn returns a value in [0, n).
func (g *LCG) Intn(n int) int {
	return int(g.Next() * float64(n))
}

// Shuffle is a Fisher–Yates shuffle walking from the last index down.
func (g *LCG) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := g.Intn(i + 1)
		swap(i, j)
	}
}

// NewSeed generates a random seed using crypto/rand, for games started without one.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
