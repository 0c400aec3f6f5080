package game

import (
	"fmt"
	"time"

	"github.com/cardroom/blackjack/internal/rules"
)

const (
	// NumSeats is the fixed number of seats at the table.
	NumSeats = 5

	// MaxHands caps how many hands a player can hold through splitting.
	MaxHands = 4
)

// Config holds the table rules and pacing. Mutable only while the room is
// in the lobby.
type Config struct {
	StartingBankroll int
	MinBet           int
	MaxBet           int // 0 means no table maximum
	DeckCount        int

	BlackjackPayout    rules.Ratio
	InsurancePayout    rules.Ratio
	SplitAcesBlackjack bool

	BettingTime     time.Duration
	InsuranceTime   time.Duration
	ActionTime      time.Duration
	DealerDrawDelay time.Duration
	RoundDelay      time.Duration
}

// DefaultConfig returns the standard table rules.
func DefaultConfig() Config {
	return Config{
		StartingBankroll:   1000,
		MinBet:             10,
		MaxBet:             500,
		DeckCount:          6,
		BlackjackPayout:    rules.MustParseRatio("3:2"),
		InsurancePayout:    rules.MustParseRatio("2:1"),
		SplitAcesBlackjack: true,
		BettingTime:        30 * time.Second,
		InsuranceTime:      15 * time.Second,
		ActionTime:         30 * time.Second,
		DealerDrawDelay:    time.Second,
		RoundDelay:         8 * time.Second,
	}
}

// Validate checks the config for internally consistent table rules.
func (c Config) Validate() error {
	if c.StartingBankroll <= 0 {
		return fmt.Errorf("starting bankroll must be positive, got %d", c.StartingBankroll)
	}
	if c.MinBet <= 0 {
		return fmt.Errorf("minimum bet must be positive, got %d", c.MinBet)
	}
	if c.MaxBet != 0 && c.MaxBet < c.MinBet {
		return fmt.Errorf("maximum bet %d is below minimum bet %d", c.MaxBet, c.MinBet)
	}
	if c.MinBet > c.StartingBankroll {
		return fmt.Errorf("minimum bet %d exceeds starting bankroll %d", c.MinBet, c.StartingBankroll)
	}
	if c.DeckCount < 1 || c.DeckCount > 8 {
		return fmt.Errorf("deck count must be between 1 and 8, got %d", c.DeckCount)
	}
	if c.BlackjackPayout.Numerator <= 0 || c.BlackjackPayout.Denominator <= 0 {
		return fmt.Errorf("invalid blackjack payout ratio %s", c.BlackjackPayout)
	}
	if c.InsurancePayout.Numerator <= 0 || c.InsurancePayout.Denominator <= 0 {
		return fmt.Errorf("invalid insurance payout ratio %s", c.InsurancePayout)
	}
	for name, d := range map[string]time.Duration{
		"betting time":   c.BettingTime,
		"insurance time": c.InsuranceTime,
		"action time":    c.ActionTime,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.DealerDrawDelay < 0 || c.RoundDelay < 0 {
		return fmt.Errorf("delays must not be negative")
	}
	return nil
}
