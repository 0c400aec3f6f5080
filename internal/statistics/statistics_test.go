package statistics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

func sampleRound(round int) game.RoundSummary {
	return game.RoundSummary{
		RoundNumber: round,
		CompletedAt: time.Now(),
		DealerValue: 19,
		Results: []game.PlayerResult{
			{
				PlayerID:   "p1",
				PlayerName: "Alice",
				Hands: []game.HandResult{
					{HandIndex: 0, Value: 20, Outcome: rules.Win, Bet: 100, Payout: 200},
				},
				TotalPayout: 200,
			},
			{
				PlayerID:   "p2",
				PlayerName: "Bob",
				Hands: []game.HandResult{
					{HandIndex: 0, Value: 17, Outcome: rules.Loss, Bet: 50, Payout: 0},
				},
			},
		},
	}
}

func TestRecordRound(t *testing.T) {
	s := NewSession()
	s.RecordRound(sampleRound(1))
	s.RecordRound(sampleRound(2))

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.Rounds)
	assert.Equal(t, 2, snap.Dealer.Rounds)
	assert.InDelta(t, 19.0, snap.Dealer.AverageValue, 0.001)

	alice := snap.Players["p1"]
	require.NotNil(t, alice)
	assert.Equal(t, 2, alice.HandsPlayed)
	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 200, alice.TotalWagered)
	assert.Equal(t, 200, alice.Net)
	assert.InDelta(t, 1.0, alice.WinRate, 0.001)
	assert.InDelta(t, 1.0, alice.ROI, 0.001)

	bob := snap.Players["p2"]
	require.NotNil(t, bob)
	assert.Equal(t, 2, bob.Losses)
	assert.Equal(t, -100, bob.Net)
}

func TestDealerAggregates(t *testing.T) {
	s := NewSession()

	bj := sampleRound(1)
	bj.DealerBlackjack = true
	bj.DealerValue = 21
	s.RecordRound(bj)

	bust := sampleRound(2)
	bust.DealerBust = true
	bust.DealerValue = 25
	s.RecordRound(bust)

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Dealer.Blackjacks)
	assert.Equal(t, 1, snap.Dealer.Busts)
	assert.InDelta(t, 23.0, snap.Dealer.AverageValue, 0.001)
}

func TestRecordSideBet(t *testing.T) {
	s := NewSession()
	s.RecordSideBet(sidebet.PerfectPairsBet, 10, 260)
	s.RecordSideBet(sidebet.PerfectPairsBet, 10, 0)
	s.RecordSideBet(sidebet.BustItBet, 5, 0)

	snap := s.Snapshot()
	pp := snap.SideBets[sidebet.PerfectPairsBet]
	require.NotNil(t, pp)
	assert.Equal(t, 2, pp.Placed)
	assert.Equal(t, 1, pp.Won)
	assert.Equal(t, 1, pp.Lost)
	assert.Equal(t, 20, pp.Wagered)
	assert.Equal(t, 260, pp.Payout)
}

func TestHistoryBounded(t *testing.T) {
	s := NewSession()
	for i := 1; i <= historySize+25; i++ {
		s.RecordRound(sampleRound(i))
	}

	snap := s.Snapshot()
	assert.Len(t, snap.History, historySize)
	assert.Equal(t, 26, snap.History[0].RoundNumber, "oldest entries evicted")
}

func TestExportJSON(t *testing.T) {
	s := NewSession()
	s.RecordRound(sampleRound(1))
	s.RecordSideBet(sidebet.TwentyOnePlus3, 10, 110)

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, s.ExportJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var export Export
	require.NoError(t, json.Unmarshal(data, &export))
	assert.Equal(t, 1, export.Rounds)
	assert.Contains(t, export.Players, "p1")
	assert.Contains(t, export.SideBets, sidebet.TwentyOnePlus3)
}
