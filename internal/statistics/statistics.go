// Package statistics aggregates round results across a table session and
// can export them as JSON. It implements the recorder interface consumed
// by the game room; collection is safe for concurrent use.
package statistics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// historySize bounds the retained per-round history.
const historySize = 200

// DealerStats aggregates the house results.
type DealerStats struct {
	Rounds          int     `json:"rounds"`
	Blackjacks      int     `json:"blackjacks"`
	Busts           int     `json:"busts"`
	TotalFinalValue int     `json:"totalFinalValue"`
	AverageValue    float64 `json:"averageValue"`
}

// PlayerStats aggregates one player's session results.
type PlayerStats struct {
	Name         string  `json:"name"`
	HandsPlayed  int     `json:"handsPlayed"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	Blackjacks   int     `json:"blackjacks"`
	TotalWagered int     `json:"totalWagered"`
	TotalPayout  int     `json:"totalPayout"`
	Net          int     `json:"net"`
	WinRate      float64 `json:"winRate"`
	ROI          float64 `json:"roi"`
	AverageBet   float64 `json:"averageBet"`
}

// SideBetStats aggregates one side bet kind.
type SideBetStats struct {
	Placed  int `json:"placed"`
	Won     int `json:"won"`
	Lost    int `json:"lost"`
	Wagered int `json:"wagered"`
	Payout  int `json:"payout"`
}

// RoundRecord is one retained history entry.
type RoundRecord struct {
	RoundNumber     int       `json:"roundNumber"`
	CompletedAt     time.Time `json:"completedAt"`
	DealerValue     int       `json:"dealerValue"`
	DealerBlackjack bool      `json:"dealerBlackjack"`
	DealerBust      bool      `json:"dealerBust"`
	Players         int       `json:"players"`
	TotalWagered    int       `json:"totalWagered"`
	TotalPayout     int       `json:"totalPayout"`
}

// Session collects statistics for the lifetime of one table process.
type Session struct {
	mu sync.Mutex

	startedAt time.Time
	rounds    int
	dealer    DealerStats
	players   map[string]*PlayerStats
	sideBets  map[sidebet.Kind]*SideBetStats
	history   []RoundRecord
}

// NewSession returns an empty collector.
func NewSession() *Session {
	return &Session{
		startedAt: time.Now(),
		players:   make(map[string]*PlayerStats),
		sideBets:  make(map[sidebet.Kind]*SideBetStats),
	}
}

// RecordRound folds one completed round into the session aggregates.
func (s *Session) RecordRound(summary game.RoundSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rounds++
	s.dealer.Rounds++
	s.dealer.TotalFinalValue += summary.DealerValue
	s.dealer.AverageValue = float64(s.dealer.TotalFinalValue) / float64(s.dealer.Rounds)
	if summary.DealerBlackjack {
		s.dealer.Blackjacks++
	}
	if summary.DealerBust {
		s.dealer.Busts++
	}

	record := RoundRecord{
		RoundNumber:     summary.RoundNumber,
		CompletedAt:     summary.CompletedAt,
		DealerValue:     summary.DealerValue,
		DealerBlackjack: summary.DealerBlackjack,
		DealerBust:      summary.DealerBust,
		Players:         len(summary.Results),
	}

	for _, pr := range summary.Results {
		ps, ok := s.players[pr.PlayerID]
		if !ok {
			ps = &PlayerStats{}
			s.players[pr.PlayerID] = ps
		}
		ps.Name = pr.PlayerName

		for _, hr := range pr.Hands {
			ps.HandsPlayed++
			ps.TotalWagered += hr.Bet
			ps.TotalPayout += hr.Payout
			record.TotalWagered += hr.Bet
			record.TotalPayout += hr.Payout

			switch hr.Outcome {
			case rules.Win:
				ps.Wins++
			case rules.Blackjack:
				ps.Wins++
				ps.Blackjacks++
			case rules.Loss:
				ps.Losses++
			case rules.Push:
				ps.Pushes++
			}
		}

		ps.Net = ps.TotalPayout - ps.TotalWagered
		if ps.HandsPlayed > 0 {
			ps.WinRate = float64(ps.Wins) / float64(ps.HandsPlayed)
			ps.AverageBet = float64(ps.TotalWagered) / float64(ps.HandsPlayed)
		}
		if ps.TotalWagered > 0 {
			ps.ROI = float64(ps.Net) / float64(ps.TotalWagered)
		}
	}

	s.history = append(s.history, record)
	if len(s.history) > historySize {
		s.history = s.history[len(s.history)-historySize:]
	}
}

// RecordSideBet folds one settled side wager into the aggregates.
func (s *Session) RecordSideBet(kind sidebet.Kind, wagered, won int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sb, ok := s.sideBets[kind]
	if !ok {
		sb = &SideBetStats{}
		s.sideBets[kind] = sb
	}
	sb.Placed++
	sb.Wagered += wagered
	sb.Payout += won
	if won > 0 {
		sb.Won++
	} else {
		sb.Lost++
	}
}

// Export is the JSON shape of a full session report.
type Export struct {
	StartedAt       time.Time                      `json:"startedAt"`
	DurationSeconds float64                        `json:"durationSeconds"`
	Rounds          int                            `json:"rounds"`
	Dealer          DealerStats                    `json:"dealer"`
	Players         map[string]*PlayerStats        `json:"players"`
	SideBets        map[sidebet.Kind]*SideBetStats `json:"sideBets"`
	History         []RoundRecord                  `json:"history"`
}

// Snapshot returns a copy of the current aggregates.
func (s *Session) Snapshot() Export {
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make(map[string]*PlayerStats, len(s.players))
	for id, ps := range s.players {
		cp := *ps
		players[id] = &cp
	}
	sideBets := make(map[sidebet.Kind]*SideBetStats, len(s.sideBets))
	for k, sb := range s.sideBets {
		cp := *sb
		sideBets[k] = &cp
	}

	return Export{
		StartedAt:       s.startedAt,
		DurationSeconds: time.Since(s.startedAt).Seconds(),
		Rounds:          s.rounds,
		Dealer:          s.dealer,
		Players:         players,
		SideBets:        sideBets,
		History:         append([]RoundRecord(nil), s.history...),
	}
}

// Rounds returns the number of recorded rounds.
func (s *Session) Rounds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rounds
}

// ExportJSON writes the full session report to a file.
func (s *Session) ExportJSON(path string) error {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing statistics file: %w", err)
	}
	return nil
}
