package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck_Composition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		active    SuitSet
		shortWild bool
		want      int
	}{
		{"standard", BaseSuits, false, 50},
		{"multicolor", BaseSuits.Add(Multicolor), false, 60},
		{"multicolor short deck", BaseSuits.Add(Multicolor), true, 55},
		{"short flag without wild suit", BaseSuits, true, 50},
	}

	for _, tt := range tests {
		deck := NewDeck(tt.active, tt.shortWild)
		assert.Len(t, deck, tt.want, tt.name)
		assert.Equal(t, tt.want, Size(tt.active, tt.shortWild), tt.name)
	}
}

func TestNewDeck_CopyCounts(t *testing.T) {
	t.Parallel()

	counts := make(map[Face]int)
	for _, f := range NewDeck(BaseSuits.Add(Multicolor), true) {
		counts[f]++
	}

	assert.Equal(t, 3, counts[Face{Red, 1}])
	assert.Equal(t, 2, counts[Face{Red, 4}])
	assert.Equal(t, 1, counts[Face{Red, 5}])
	for n := MinNumber; n <= MaxNumber; n++ {
		assert.Equal(t, 1, counts[Face{Multicolor, n}])
	}
}

func TestDeck_CardsAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	cards := NewDeck(BaseSuits, false).Cards()
	assert.Equal(t, "c00", cards[0].ID)
	assert.Equal(t, "c49", cards[49].ID)
	assert.NotNil(t, cards[0].Hints.NotColors)
	assert.Empty(t, cards[0].Hints.NotColors)

	small := Deck{{Red, 1}, {Red, 2}}.Cards()
	assert.Equal(t, "c01", small[1].ID)

	big := make(Deck, 101)
	assert.Equal(t, "c100", big.Cards()[100].ID)
	assert.Equal(t, "c000", big.Cards()[0].ID)
}
