package game

import (
	"time"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// Event is a closed set of room outputs. Name returns the wire event name.
type Event interface {
	Name() string
}

// Sink receives room output. Broadcast goes to every connected client,
// SendTo only to the named player. Acks are SendTo-only; state is
// broadcast.
type Sink interface {
	Broadcast(Event)
	SendTo(playerID string, event Event)
}

// Phase is the room's position in the round cycle.
type Phase string

const (
	PhaseLobby     Phase = "lobby"
	PhaseBetting   Phase = "betting"
	PhaseInsurance Phase = "insurance"
	PhaseDealing   Phase = "dealing"
	PhasePlaying   Phase = "playing"
	PhaseDealer    Phase = "dealer"
	PhaseResults   Phase = "results"
)

// HandSnapshot is one hand in the state broadcast.
type HandSnapshot struct {
	Cards     []deck.Card      `json:"cards"`
	Bet       int              `json:"bet"`
	Status    rules.HandStatus `json:"status"`
	Value     int              `json:"value"`
	Soft      bool             `json:"soft"`
	Doubled   bool             `json:"doubled"`
	FromSplit bool             `json:"fromSplit"`
}

// PlayerSnapshot is one seated player in the state broadcast.
type PlayerSnapshot struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	Color         string               `json:"color,omitempty"`
	Seat          int                  `json:"seat"`
	IsHost        bool                 `json:"isHost"`
	Bankroll      int                  `json:"bankroll"`
	CurrentBet    int                  `json:"currentBet"`
	SideBets      map[sidebet.Kind]int `json:"sideBets,omitempty"`
	Participation Participation        `json:"participation"`
	Hands         []HandSnapshot       `json:"hands"`
	Insurance     int                  `json:"insurance,omitempty"`
	Stats         Stats                `json:"stats"`
}

// DealerSnapshot is the dealer in the state broadcast. While the hole card
// must stay secret it is replaced by a placeholder and Value covers the up
// card only.
type DealerSnapshot struct {
	Cards        []deck.Card `json:"cards"`
	Value        int         `json:"value"`
	HoleRevealed bool        `json:"holeRevealed"`
	HasBlackjack bool        `json:"hasBlackjack,omitempty"`
	IsBust       bool        `json:"isBust,omitempty"`
}

// GameState is the full snapshot broadcast after every mutation.
type GameState struct {
	Phase            Phase            `json:"phase"`
	RoundNumber      int              `json:"roundNumber"`
	Config           ConfigSnapshot   `json:"config"`
	Players          []PlayerSnapshot `json:"players"`
	Seats            [NumSeats]string `json:"seats"`
	Dealer           DealerSnapshot   `json:"dealer"`
	CurrentPlayer    string           `json:"currentPlayer,omitempty"`
	CurrentHandIndex int              `json:"currentHandIndex"`
	DeckPenetration  float64          `json:"deckPenetration"`
	AutoAdvance      bool             `json:"autoAdvance"`
}

func (GameState) Name() string { return "game-state" }

// ConfigSnapshot is the wire form of the table config.
type ConfigSnapshot struct {
	StartingBankroll   int    `json:"startingBankroll"`
	MinBet             int    `json:"minBet"`
	MaxBet             int    `json:"maxBet"`
	DeckCount          int    `json:"deckCount"`
	BlackjackPayout    string `json:"blackjackPayout"`
	InsurancePayout    string `json:"insurancePayout"`
	SplitAcesBlackjack bool   `json:"splitAcesBlackjack"`
	BettingTimeMS      int64  `json:"bettingTimeMs"`
	InsuranceTimeMS    int64  `json:"insuranceTimeMs"`
	ActionTimeMS       int64  `json:"actionTimeMs"`
	RoundDelayMS       int64  `json:"roundDelayMs"`
}

func (c Config) snapshot() ConfigSnapshot {
	return ConfigSnapshot{
		StartingBankroll:   c.StartingBankroll,
		MinBet:             c.MinBet,
		MaxBet:             c.MaxBet,
		DeckCount:          c.DeckCount,
		BlackjackPayout:    c.BlackjackPayout.String(),
		InsurancePayout:    c.InsurancePayout.String(),
		SplitAcesBlackjack: c.SplitAcesBlackjack,
		BettingTimeMS:      c.BettingTime.Milliseconds(),
		InsuranceTimeMS:    c.InsuranceTime.Milliseconds(),
		ActionTimeMS:       c.ActionTime.Milliseconds(),
		RoundDelayMS:       c.RoundDelay.Milliseconds(),
	}
}

// PlayerJoined announces a newly seated player.
type PlayerJoined struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"name"`
	Seat       int    `json:"seat"`
}

func (PlayerJoined) Name() string { return "player-joined" }

// PlayerLeft announces a departed player.
type PlayerLeft struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"name"`
}

func (PlayerLeft) Name() string { return "player-left" }

// HostTransferred announces the new host.
type HostTransferred struct {
	PlayerID string `json:"playerId"`
}

func (HostTransferred) Name() string { return "host-transferred" }

// CardDealt announces a card landing in a player hand.
type CardDealt struct {
	PlayerID  string    `json:"playerId"`
	Card      deck.Card `json:"card"`
	HandIndex int       `json:"handIndex"`
}

func (CardDealt) Name() string { return "card-dealt" }

// DealerCard announces a card landing in the dealer hand. A face-down card
// carries the placeholder, not the real card.
type DealerCard struct {
	Card   deck.Card `json:"card"`
	FaceUp bool      `json:"faceUp"`
}

func (DealerCard) Name() string { return "dealer-card" }

// DealerReveal announces the hole card turning face up.
type DealerReveal struct {
	HoleCard deck.Card `json:"holeCard"`
}

func (DealerReveal) Name() string { return "dealer-reveal" }

// BettingPhase announces a new betting window.
type BettingPhase struct {
	TimeLimitMS int64 `json:"timeLimitMs"`
	MinBet      int   `json:"minBet"`
	MaxBet      int   `json:"maxBet"`
}

func (BettingPhase) Name() string { return "betting-phase" }

// InsuranceOffered announces the insurance window after an Ace up card.
type InsuranceOffered struct {
	TimeLimitMS int64 `json:"timeLimitMs"`
}

func (InsuranceOffered) Name() string { return "insurance-offered" }

// PlayerTurn announces whose hand is live and what it may legally do.
type PlayerTurn struct {
	PlayerID         string   `json:"playerId"`
	HandIndex        int      `json:"handIndex"`
	TimeLimitMS      int64    `json:"timeLimitMs"`
	AvailableActions []Action `json:"availableActions"`
}

func (PlayerTurn) Name() string { return "player-turn" }

// HandResult is one resolved hand in the round summary.
type HandResult struct {
	HandIndex int           `json:"handIndex"`
	Cards     []deck.Card   `json:"cards"`
	Value     int           `json:"value"`
	Outcome   rules.Outcome `json:"outcome"`
	Bet       int           `json:"bet"`
	Payout    int           `json:"payout"`
}

// SideBetOutcome is one settled side wager in the round summary.
type SideBetOutcome struct {
	Kind       sidebet.Kind `json:"kind"`
	Stake      int          `json:"stake"`
	Won        bool         `json:"won"`
	HandType   string       `json:"handType,omitempty"`
	Multiplier int          `json:"multiplier"`
	Payout     int          `json:"payout"`
}

// InsuranceOutcome is a settled insurance wager in the round summary.
type InsuranceOutcome struct {
	Stake  int  `json:"stake"`
	Won    bool `json:"won"`
	Payout int  `json:"payout"`
}

// PlayerResult is one player's complete round settlement.
type PlayerResult struct {
	PlayerID    string            `json:"playerId"`
	PlayerName  string            `json:"name"`
	Hands       []HandResult      `json:"hands"`
	SideBets    []SideBetOutcome  `json:"sideBets,omitempty"`
	Insurance   *InsuranceOutcome `json:"insurance,omitempty"`
	TotalPayout int               `json:"totalPayout"`
	Bankroll    int               `json:"bankroll"`
}

// RoundResults is the end-of-round settlement broadcast.
type RoundResults struct {
	RoundNumber     int            `json:"roundNumber"`
	DealerHand      []deck.Card    `json:"dealerHand"`
	DealerValue     int            `json:"dealerValue"`
	DealerBlackjack bool           `json:"dealerBlackjack"`
	DealerBust      bool           `json:"dealerBust"`
	Results         []PlayerResult `json:"results"`
}

func (RoundResults) Name() string { return "round-results" }

// PlayerAutoFolded tells the table a player was pulled from the round at
// the commit boundary.
type PlayerAutoFolded struct {
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason"`
}

func (PlayerAutoFolded) Name() string { return "player-auto-folded" }

// Fold reasons carried by PlayerAutoFolded.
const (
	FoldInsufficientFunds = "insufficient_funds"
	FoldDeductionError    = "deduction_error"
)

// BetPlaced acknowledges a staged bet to its owner.
type BetPlaced struct {
	Amount   int                  `json:"amount"`
	SideBets map[sidebet.Kind]int `json:"sideBets,omitempty"`
}

func (BetPlaced) Name() string { return "bet-placed" }

// BetFailed rejects a bet to its owner.
type BetFailed struct {
	Reason string `json:"reason"`
}

func (BetFailed) Name() string { return "bet-failed" }

// ReadyConfirmed acknowledges a ready lock-in.
type ReadyConfirmed struct{}

func (ReadyConfirmed) Name() string { return "ready-confirmed" }

// ReadyFailed rejects a ready request.
type ReadyFailed struct {
	Reason string `json:"reason"`
}

func (ReadyFailed) Name() string { return "ready-failed" }

// ActionConfirmed acknowledges a play action to its owner.
type ActionConfirmed struct {
	Action    Action `json:"action"`
	HandIndex int    `json:"handIndex"`
}

func (ActionConfirmed) Name() string { return "action-confirmed" }

// ActionFailed rejects a play action.
type ActionFailed struct {
	Reason string `json:"reason"`
}

func (ActionFailed) Name() string { return "action-failed" }

// InsurancePlaced acknowledges an insurance decision to its owner.
type InsurancePlaced struct {
	Amount int `json:"amount"`
}

func (InsurancePlaced) Name() string { return "insurance-placed" }

// InsuranceFailed rejects an insurance request.
type InsuranceFailed struct {
	Reason string `json:"reason"`
}

func (InsuranceFailed) Name() string { return "insurance-failed" }

// ErrorEvent reports a rejected request with no dedicated failure ack.
type ErrorEvent struct {
	Reason string `json:"reason"`
}

func (ErrorEvent) Name() string { return "error" }

// RoundSummary is handed to the statistics collector per completed round.
type RoundSummary struct {
	RoundNumber     int
	CompletedAt     time.Time
	DealerCards     []deck.Card
	DealerValue     int
	DealerBlackjack bool
	DealerBust      bool
	Results         []PlayerResult
}

// Recorder consumes round completion data. The room never blocks on it.
type Recorder interface {
	RecordRound(summary RoundSummary)
	RecordSideBet(kind sidebet.Kind, wagered, won int)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) RecordRound(RoundSummary)             {}
func (NopRecorder) RecordSideBet(sidebet.Kind, int, int) {}
