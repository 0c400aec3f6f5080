package server

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/rules"
)

// Config is the full server configuration, loadable from an HCL file.
type Config struct {
	Host     string       `hcl:"host,optional"`
	Port     int          `hcl:"port,optional"`
	LogLevel string       `hcl:"log_level,optional"`
	Table    *TableConfig `hcl:"table,block"`
}

// TableConfig is the table rules block, in wire-friendly units.
type TableConfig struct {
	StartingBankroll   int    `hcl:"starting_bankroll,optional" json:"startingBankroll"`
	MinBet             int    `hcl:"min_bet,optional" json:"minBet"`
	MaxBet             int    `hcl:"max_bet,optional" json:"maxBet"`
	DeckCount          int    `hcl:"deck_count,optional" json:"deckCount"`
	BlackjackPayout    string `hcl:"blackjack_payout,optional" json:"blackjackPayout"`
	InsurancePayout    string `hcl:"insurance_payout,optional" json:"insurancePayout"`
	SplitAcesBlackjack *bool  `hcl:"split_aces_blackjack,optional" json:"splitAcesBlackjack,omitempty"`
	BettingSeconds     int    `hcl:"betting_seconds,optional" json:"bettingSeconds"`
	InsuranceSeconds   int    `hcl:"insurance_seconds,optional" json:"insuranceSeconds"`
	ActionSeconds      int    `hcl:"action_seconds,optional" json:"actionSeconds"`
	DealerDrawDelayMS  int    `hcl:"dealer_draw_delay_ms,optional" json:"dealerDrawDelayMs"`
	RoundDelaySeconds  int    `hcl:"round_delay_seconds,optional" json:"roundDelaySeconds"`
}

// DefaultConfig returns the server defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     "0.0.0.0",
		Port:     8080,
		LogLevel: "info",
	}
}

// LoadConfig parses an HCL config file, applying defaults for anything
// left unset.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing config file: %s", diags.Error())
	}

	config := DefaultConfig()
	if diags := gohcl.DecodeBody(file.Body, nil, config); diags.HasErrors() {
		return nil, fmt.Errorf("decoding config file: %s", diags.Error())
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks server-level settings and the table block if present.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if c.Table != nil {
		if _, err := c.Table.GameConfig(); err != nil {
			return err
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GameConfig converts the wire-unit table block into the game config,
// starting from the defaults so unset fields keep their standard values.
func (t *TableConfig) GameConfig() (game.Config, error) {
	cfg := game.DefaultConfig()
	if t == nil {
		return cfg, nil
	}

	if t.StartingBankroll != 0 {
		cfg.StartingBankroll = t.StartingBankroll
	}
	if t.MinBet != 0 {
		cfg.MinBet = t.MinBet
	}
	if t.MaxBet != 0 {
		cfg.MaxBet = t.MaxBet
	}
	if t.DeckCount != 0 {
		cfg.DeckCount = t.DeckCount
	}
	if t.BlackjackPayout != "" {
		ratio, err := rules.ParseRatio(t.BlackjackPayout)
		if err != nil {
			return cfg, fmt.Errorf("blackjack_payout: %w", err)
		}
		cfg.BlackjackPayout = ratio
	}
	if t.InsurancePayout != "" {
		ratio, err := rules.ParseRatio(t.InsurancePayout)
		if err != nil {
			return cfg, fmt.Errorf("insurance_payout: %w", err)
		}
		cfg.InsurancePayout = ratio
	}
	if t.SplitAcesBlackjack != nil {
		cfg.SplitAcesBlackjack = *t.SplitAcesBlackjack
	}
	if t.BettingSeconds != 0 {
		cfg.BettingTime = time.Duration(t.BettingSeconds) * time.Second
	}
	if t.InsuranceSeconds != 0 {
		cfg.InsuranceTime = time.Duration(t.InsuranceSeconds) * time.Second
	}
	if t.ActionSeconds != 0 {
		cfg.ActionTime = time.Duration(t.ActionSeconds) * time.Second
	}
	if t.DealerDrawDelayMS != 0 {
		cfg.DealerDrawDelay = time.Duration(t.DealerDrawDelayMS) * time.Millisecond
	}
	if t.RoundDelaySeconds != 0 {
		cfg.RoundDelay = time.Duration(t.RoundDelaySeconds) * time.Second
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("table config: %w", err)
	}
	return cfg, nil
}
