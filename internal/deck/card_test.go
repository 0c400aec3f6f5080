package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardValue(t *testing.T) {
	tests := []struct {
		name  string
		card  Card
		value int
	}{
		{"ace counts eleven", Card{Rank: Ace, Suit: Spades}, 11},
		{"two", Card{Rank: Two, Suit: Hearts}, 2},
		{"nine", Card{Rank: Nine, Suit: Clubs}, 9},
		{"ten", Card{Rank: Ten, Suit: Diamonds}, 10},
		{"jack", Card{Rank: Jack, Suit: Spades}, 10},
		{"queen", Card{Rank: Queen, Suit: Hearts}, 10},
		{"king", Card{Rank: King, Suit: Clubs}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.value, tt.card.Value())
		})
	}
}

func TestCardPredicates(t *testing.T) {
	ace := Card{Rank: Ace, Suit: Hearts}
	king := Card{Rank: King, Suit: Spades}
	ten := Card{Rank: Ten, Suit: Diamonds}
	nine := Card{Rank: Nine, Suit: Clubs}

	assert.True(t, ace.IsAce())
	assert.False(t, king.IsAce())

	assert.True(t, king.IsTenValue())
	assert.True(t, ten.IsTenValue())
	assert.False(t, nine.IsTenValue())
	assert.False(t, ace.IsTenValue())

	assert.True(t, ace.IsRed())
	assert.True(t, ten.IsRed())
	assert.False(t, king.IsRed())
	assert.False(t, nine.IsRed())
}

func TestHiddenCard(t *testing.T) {
	assert.True(t, Hidden.IsHidden())
	assert.False(t, Card{Rank: Ace, Suit: Spades}.IsHidden())
}

func TestParseCard(t *testing.T) {
	tests := []struct {
		input string
		want  Card
	}{
		{"AS", Card{Rank: Ace, Suit: Spades}},
		{"10D", Card{Rank: Ten, Suit: Diamonds}},
		{"TD", Card{Rank: Ten, Suit: Diamonds}},
		{"KH", Card{Rank: King, Suit: Hearts}},
		{"qc", Card{Rank: Queen, Suit: Clubs}},
		{"2s", Card{Rank: Two, Suit: Spades}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "A", "1S", "AX", "11D", "ASD"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseCard(bad)
			assert.Error(t, err)
		})
	}
}

func TestParseCards(t *testing.T) {
	cards, err := ParseCards("AS KH 10D")
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, cards[0])
	assert.Equal(t, Card{Rank: King, Suit: Hearts}, cards[1])
	assert.Equal(t, Card{Rank: Ten, Suit: Diamonds}, cards[2])

	_, err = ParseCards("AS XX")
	assert.Error(t, err)
}
