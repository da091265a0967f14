package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSuit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Suit
		wantErr bool
	}{
		{"red", Red, false},
		{" Blue ", Blue, false},
		{"MULTICOLOR", Multicolor, false},
		{"purple", -1, true},
		{"", -1, true},
	}

	for _, tt := range tests {
		got, err := ParseSuit(tt.input)
		if tt.wantErr {
			assert.Error(t, err, tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestSuit_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal([]Suit{Red, Multicolor})
	require.NoError(t, err)
	assert.JSONEq(t, `["red","multicolor"]`, string(data))

	var suits []Suit
	require.NoError(t, json.Unmarshal(data, &suits))
	assert.Equal(t, []Suit{Red, Multicolor}, suits)

	_, err = json.Marshal(Suit(9))
	assert.Error(t, err)
}

func TestSuitSet(t *testing.T) {
	t.Parallel()

	set := NewSuitSet(Red, Blue)
	assert.True(t, set.Has(Red))
	assert.False(t, set.Has(Green))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []Suit{Red, Blue}, set.Suits())

	only, ok := set.Remove(Red).Only()
	assert.True(t, ok)
	assert.Equal(t, Blue, only)

	_, ok = set.Only()
	assert.False(t, ok)

	assert.Equal(t, 5, BaseSuits.Len())
	assert.False(t, BaseSuits.Has(Multicolor))
	assert.Equal(t, NewSuitSet(Red), set.Intersect(NewSuitSet(Red, Green)))
	assert.Equal(t, NewSuitSet(Blue), set.Minus(NewSuitSet(Red)))

	data, err := json.Marshal(BaseSuits.Add(Multicolor))
	require.NoError(t, err)
	assert.JSONEq(t, `["red","yellow","green","blue","white","multicolor"]`, string(data))

	var decoded SuitSet
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, BaseSuits.Add(Multicolor), decoded)
}

func TestHints_Candidates(t *testing.T) {
	t.Parallel()

	h := NewHints()
	assert.Equal(t, BaseSuits, h.ColorCandidates(BaseSuits))
	assert.Equal(t, AllNumbers, h.NumberCandidates())

	h.NotColors = []Suit{Red, Green}
	h.NotNumbers = []Number{1, 5}
	assert.Equal(t, NewSuitSet(Yellow, Blue, White), h.ColorCandidates(BaseSuits))
	assert.Equal(t, 3, h.NumberCandidates().Len())
	assert.False(t, h.NumberCandidates().Has(5))

	h.Color = SuitPtr(Blue)
	h.Number = NumberPtr(3)
	assert.Equal(t, NewSuitSet(Blue), h.ColorCandidates(BaseSuits))
	assert.Equal(t, 1, h.NumberCandidates().Len())
	assert.True(t, h.NumberCandidates().Has(3))
}

func TestCard_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	c := &Card{ID: "c00", Suit: Red, Number: 1, Hints: NewHints()}
	c.Hints.Color = SuitPtr(Red)
	c.Hints.NotNumbers = []Number{2}

	clone := c.Clone()
	assert.Equal(t, c, clone)

	*clone.Hints.Color = Blue
	clone.Hints.NotNumbers[0] = 4
	assert.Equal(t, Red, *c.Hints.Color)
	assert.Equal(t, Number(2), c.Hints.NotNumbers[0])
}
