package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

func testPlayer() *Player {
	return NewPlayer("p1", "Alice", 1, 1000)
}

func TestStageBetsDoesNotTouchBankroll(t *testing.T) {
	p := testPlayer()
	cfg := DefaultConfig()

	require.NoError(t, p.StageBets(100, nil, cfg))
	assert.Equal(t, 1000, p.Bankroll, "deduction is deferred to betting close")
	assert.Equal(t, 100, p.CurrentBet)

	// editing the bet is free
	require.NoError(t, p.StageBets(200, nil, cfg))
	assert.Equal(t, 1000, p.Bankroll)
	assert.Equal(t, 200, p.CurrentBet)

	require.NoError(t, p.CancelBet())
	assert.Equal(t, 1000, p.Bankroll)
	assert.Equal(t, 0, p.CurrentBet)
}

func TestStageBetsValidation(t *testing.T) {
	p := testPlayer()
	cfg := DefaultConfig()

	assert.Error(t, p.StageBets(5, nil, cfg), "below minimum")
	assert.Error(t, p.StageBets(600, nil, cfg), "above maximum")
	assert.Error(t, p.StageBets(-1, nil, cfg))

	p.Participation = Ready
	assert.Error(t, p.StageBets(100, nil, cfg), "locked in after ready")
}

func TestStageBetsSideWagers(t *testing.T) {
	p := testPlayer()
	cfg := DefaultConfig()

	require.NoError(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.PerfectPairsBet: 25}, cfg))
	assert.Equal(t, 125, p.TotalWagered())
	assert.Equal(t, 1000, p.Bankroll)

	// a restated kind at zero clears the wager, unmentioned kinds persist
	require.NoError(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.BustItBet: 10}, cfg))
	assert.Equal(t, 135, p.TotalWagered())
	require.NoError(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.PerfectPairsBet: 0}, cfg))
	assert.Equal(t, 110, p.TotalWagered())

	assert.Error(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.Kind("bogus"): 10}, cfg))
	assert.Error(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.BustItBet: 100000}, cfg), "beyond bankroll")
}

func TestStageBetsRejectionLeavesWagersUntouched(t *testing.T) {
	p := testPlayer()
	cfg := DefaultConfig()

	require.Error(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.BustItBet: -5}, cfg))
	assert.Equal(t, 0, p.CurrentBet, "no partial staging on a rejected intent")
	assert.Empty(t, p.SideBets)

	require.NoError(t, p.StageBets(100, map[sidebet.Kind]int{sidebet.BustItBet: 25}, cfg))
	require.Error(t, p.StageBets(200, map[sidebet.Kind]int{sidebet.PerfectPairsBet: 10000}, cfg))
	assert.Equal(t, 100, p.CurrentBet, "previous wagers survive a failed restake")
	assert.Equal(t, 25, p.SideBets[sidebet.BustItBet])
	assert.NotContains(t, p.SideBets, sidebet.PerfectPairsBet)
}

func TestSplitInsertsHandInOrder(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.Bankroll = 900
	p.InitializeHand()
	p.AddCard(mustCard(t, "8S"), 0, false)
	p.AddCard(mustCard(t, "8H"), 0, false)

	require.NoError(t, p.Split(0))

	assert.Equal(t, 800, p.Bankroll, "second stake deducted immediately")
	require.Len(t, p.Hands, 2)
	assert.Equal(t, []string{"8♠"}, cardNames(p.Hands[0].Cards))
	assert.Equal(t, []string{"8♥"}, cardNames(p.Hands[1].Cards))
	assert.True(t, p.Hands[0].FromSplit)
	assert.True(t, p.Hands[1].FromSplit)
	assert.Equal(t, 100, p.Hands[1].Bet)
	assert.Equal(t, 1, p.Stats.Splits)
}

func cardNames(cards []deck.Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}

func TestSplitLimits(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.InitializeHand()
	p.AddCard(mustCard(t, "8S"), 0, false)
	p.AddCard(mustCard(t, "9H"), 0, false)
	assert.Error(t, p.Split(0), "mismatched ranks")

	q := testPlayer()
	q.CurrentBet = 600
	q.Bankroll = 500
	q.InitializeHand()
	q.AddCard(mustCard(t, "8S"), 0, false)
	q.AddCard(mustCard(t, "8H"), 0, false)
	assert.Error(t, q.Split(0), "cannot afford the second stake")
}

func TestDoubleDeductsImmediately(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.Bankroll = 900
	p.InitializeHand()
	p.AddCard(mustCard(t, "5S"), 0, false)
	p.AddCard(mustCard(t, "6H"), 0, false)

	require.NoError(t, p.Double(0))
	assert.Equal(t, 800, p.Bankroll)
	assert.Equal(t, 200, p.Hands[0].Bet)
	assert.True(t, p.Hands[0].Doubled)
	assert.True(t, p.Hands[0].HasActed)

	assert.Error(t, p.Double(0), "cannot double twice")
}

func TestDoubleAfterSplitAllowed(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.Bankroll = 900
	p.InitializeHand()
	p.AddCard(mustCard(t, "8S"), 0, false)
	p.AddCard(mustCard(t, "8H"), 0, false)
	require.NoError(t, p.Split(0))

	// each split hand draws back to two cards
	p.AddCard(mustCard(t, "3D"), 0, false)
	p.AddCard(mustCard(t, "2C"), 1, false)

	require.NoError(t, p.Double(0))
	assert.Equal(t, 200, p.Hands[0].Bet)
}

func TestAvailableActions(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.Bankroll = 900
	p.InitializeHand()
	p.AddCard(mustCard(t, "8S"), 0, false)
	p.AddCard(mustCard(t, "8H"), 0, false)

	actions := p.AvailableActions(0)
	assert.ElementsMatch(t, []Action{ActionStand, ActionHit, ActionDouble, ActionSplit}, actions)

	p.Bankroll = 0
	actions = p.AvailableActions(0)
	assert.ElementsMatch(t, []Action{ActionStand, ActionHit}, actions,
		"double and split need a matching stake")
}

func TestAllHandsCompleteAndStandAll(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.InitializeHand()
	p.AddCard(mustCard(t, "8S"), 0, false)
	p.AddCard(mustCard(t, "9H"), 0, false)

	assert.False(t, p.AllHandsComplete())
	p.StandAll()
	assert.True(t, p.AllHandsComplete())
	assert.Equal(t, rules.StatusStand, p.Hands[0].Status)
}

func TestResetForRound(t *testing.T) {
	p := testPlayer()
	p.CurrentBet = 100
	p.Participation = Ready
	p.InitializeHand()

	p.ResetForRound(10)
	assert.Equal(t, Undecided, p.Participation)
	assert.Equal(t, 0, p.CurrentBet)
	assert.Nil(t, p.Hands)

	p.Bankroll = 5
	p.ResetForRound(10)
	assert.Equal(t, Eliminated, p.Participation, "below the table minimum")

	q := testPlayer()
	q.Participation = SittingOut
	q.ResetForRound(10)
	assert.Equal(t, SittingOut, q.Participation, "sit-out persists across rounds")
}

func TestStatsRecordHand(t *testing.T) {
	var s Stats
	s.RecordHand(rules.Blackjack, 100, 250)
	s.RecordHand(rules.Loss, 100, 0)
	s.RecordHand(rules.Push, 50, 50)

	assert.Equal(t, 3, s.HandsPlayed)
	assert.Equal(t, 1, s.Wins)
	assert.Equal(t, 1, s.Blackjacks)
	assert.Equal(t, 1, s.Losses)
	assert.Equal(t, 1, s.Pushes)
	assert.Equal(t, 250, s.TotalWagered)
	assert.Equal(t, 50, s.NetProfit)
	assert.Equal(t, 150, s.BiggestWin)
	assert.Equal(t, -100, s.BiggestLoss)
}
