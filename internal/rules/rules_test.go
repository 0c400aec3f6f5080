package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/deck"
)

func cards(t *testing.T, script string) []deck.Card {
	t.Helper()
	cs, err := deck.ParseCards(script)
	require.NoError(t, err)
	return cs
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		script string
		value  int
		soft   bool
	}{
		{"AS KH", 21, true},
		{"AS AH", 12, true},
		{"AS AH AD", 13, true},
		{"AS 9H", 20, true},
		{"AS 9H 5D", 15, false},
		{"AS AH 9D", 21, true},
		{"10S 6H", 16, false},
		{"10S 6H 6D", 22, false},
		{"KS QH JD", 30, false},
		{"AS AH AD AC 7S", 21, true},
		{"2S 3H", 5, false},
	}

	for _, tt := range tests {
		t.Run(tt.script, func(t *testing.T) {
			value, soft := HandValue(cards(t, tt.script))
			assert.Equal(t, tt.value, value, "value")
			assert.Equal(t, tt.soft, soft, "soft")
		})
	}
}

func TestIsBlackjack(t *testing.T) {
	assert.True(t, IsBlackjack(cards(t, "AS KH"), false, false))
	assert.True(t, IsBlackjack(cards(t, "10D AH"), false, false))
	assert.False(t, IsBlackjack(cards(t, "7S 7H 7D"), false, false))
	assert.False(t, IsBlackjack(cards(t, "10S JH"), false, false))
	assert.False(t, IsBlackjack(cards(t, "AS 9H"), false, false))

	// Ace-ten after a split only counts when the table allows it
	assert.False(t, IsBlackjack(cards(t, "AS KH"), true, false))
	assert.True(t, IsBlackjack(cards(t, "AS KH"), true, true))
}

func TestCompareHands(t *testing.T) {
	tests := []struct {
		name            string
		player, dealer  int
		playerBJ, dlrBJ bool
		want            Outcome
	}{
		{"both blackjack pushes", 21, 21, true, true, Push},
		{"player blackjack wins", 21, 21, true, false, Win},
		{"dealer blackjack beats 21", 21, 21, false, true, Loss},
		{"player bust loses", 22, 25, false, false, Loss},
		{"dealer bust pays", 15, 22, false, false, Win},
		{"higher total wins", 20, 19, false, false, Win},
		{"lower total loses", 18, 19, false, false, Loss},
		{"equal totals push", 18, 18, false, false, Push},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CompareHands(tt.player, tt.dealer, tt.playerBJ, tt.dlrBJ))
		})
	}
}

func TestCanSplit(t *testing.T) {
	assert.True(t, CanSplit(cards(t, "8S 8H")))
	assert.True(t, CanSplit(cards(t, "AS AH")))
	assert.True(t, CanSplit(cards(t, "KS 10H")), "mixed ten-values split")
	assert.True(t, CanSplit(cards(t, "JS QD")))
	assert.False(t, CanSplit(cards(t, "8S 9H")))
	assert.False(t, CanSplit(cards(t, "8S 8H 8D")))
}

func TestCanDouble(t *testing.T) {
	assert.True(t, CanDouble(cards(t, "5S 6H"), false))
	assert.False(t, CanDouble(cards(t, "5S 6H"), true))
	assert.False(t, CanDouble(cards(t, "5S 6H 2D"), false))
}

func TestCanHit(t *testing.T) {
	assert.True(t, CanHit(16, StatusActive))
	assert.False(t, CanHit(21, StatusActive), "21 stands automatically")
	assert.False(t, CanHit(22, StatusActive))
	assert.False(t, CanHit(16, StatusStand))
	assert.False(t, CanHit(16, StatusBust))
}

func TestDealerShouldHit(t *testing.T) {
	assert.True(t, DealerShouldHit(16))
	assert.False(t, DealerShouldHit(17), "stands on all 17s")
	assert.False(t, DealerShouldHit(18))
}

func TestPayout(t *testing.T) {
	threeToTwo := MustParseRatio("3:2")

	assert.Equal(t, 0, Payout(100, Loss, threeToTwo))
	assert.Equal(t, 100, Payout(100, Push, threeToTwo))
	assert.Equal(t, 200, Payout(100, Win, threeToTwo))
	assert.Equal(t, 250, Payout(100, Blackjack, threeToTwo))
	assert.Equal(t, 37, Payout(15, Blackjack, threeToTwo), "fractional payout truncates")

	sixToFive := MustParseRatio("6:5")
	assert.Equal(t, 220, Payout(100, Blackjack, sixToFive))
}

func TestValidateBet(t *testing.T) {
	assert.NoError(t, ValidateBet(50, 10, 500, 1000))
	assert.NoError(t, ValidateBet(500, 10, 500, 1000))
	assert.Error(t, ValidateBet(5, 10, 500, 1000), "below minimum")
	assert.Error(t, ValidateBet(600, 10, 500, 1000), "above maximum")
	assert.Error(t, ValidateBet(50, 10, 500, 40), "insufficient funds")
	assert.Error(t, ValidateBet(-10, 0, 500, 1000), "negative")
	assert.NoError(t, ValidateBet(9999, 10, 0, 10000), "no table max")
}

func TestParseRatio(t *testing.T) {
	r, err := ParseRatio("3:2")
	require.NoError(t, err)
	assert.Equal(t, Ratio{3, 2}, r)
	assert.Equal(t, "3:2", r.String())
	assert.InDelta(t, 1.5, r.Float(), 0.001)

	for _, bad := range []string{"", "3", "3:", ":2", "3:2:1", "a:b", "0:2", "-3:2"} {
		_, err := ParseRatio(bad)
		assert.Errorf(t, err, "input %q", bad)
	}
}
