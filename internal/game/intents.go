package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// Intent is a closed set of client and admin requests. Every variant is
// handled exhaustively by the room's dispatcher; adding one is a
// compile-time-checked change.
type Intent interface {
	intent()
}

// Join seats a new player. The first player to join becomes host.
type Join struct {
	PlayerID string
	Name     string
}

// Leave removes a player, freeing the seat. A leave during the player's
// turn counts as standing every active hand.
type Leave struct {
	PlayerID string
}

// Start moves the room from the lobby into the first betting phase. Host
// only, requires at least one seated player.
type Start struct {
	PlayerID string
}

// PlaceBet stages a main bet and optional side bets. Nothing is deducted
// until betting closes.
type PlaceBet struct {
	PlayerID string
	Amount   int
	SideBets map[sidebet.Kind]int
}

// SetReady locks in the staged bet. Readiness is one-way for the round.
type SetReady struct {
	PlayerID string
}

// CancelBet clears all staged wagers.
type CancelBet struct {
	PlayerID string
}

// SitOut skips the current and following rounds while keeping the seat.
type SitOut struct {
	PlayerID string
}

// CancelSitOut rejoins play from the next betting phase.
type CancelSitOut struct {
	PlayerID string
}

// PlaceInsurance accepts or declines the insurance offer. Accepting stakes
// half the main bet.
type PlaceInsurance struct {
	PlayerID string
	Accept   bool
}

// PlayerAction plays the indexed hand.
type PlayerAction struct {
	PlayerID  string
	Action    Action
	HandIndex int
}

// PreSelectAction queues an action to run automatically when the targeted
// hand's turn arrives. A queued action whose hand has already been passed
// is dropped.
type PreSelectAction struct {
	PlayerID  string
	Action    Action
	HandIndex int
}

// UpdateProfile changes display name and color. Empty fields are left
// unchanged.
type UpdateProfile struct {
	PlayerID string
	Name     string
	Color    string
}

// UpdateConfig replaces the table config. Host only, lobby only.
type UpdateConfig struct {
	PlayerID string
	Config   Config
}

// AdvancePhase fires the current phase deadline immediately. Used by the
// host and by admins, and it is the only way forward when auto-advance is
// disabled.
type AdvancePhase struct {
	PlayerID string
}

// SetAutoAdvance toggles timer-driven progression. Only honored while the
// phase is lobby or betting.
type SetAutoAdvance struct {
	PlayerID string
	Enabled  bool
}

// EndGame returns the room to the lobby from any phase. Host only.
type EndGame struct {
	PlayerID string
}

// Kick removes another player. Host only.
type Kick struct {
	PlayerID string
	TargetID string
}

// TransferHost hands host status to another seated player. Host only.
type TransferHost struct {
	PlayerID string
	TargetID string
}

// InstallCardSource overrides the shoe with a scripted card source. Only
// honored while the phase is lobby or betting.
type InstallCardSource struct {
	Source deck.CardSource
}

// RemoveCardSource restores drawing from the live shoe. Only honored while
// the phase is lobby or betting.
type RemoveCardSource struct{}

func (Join) intent()              {}
func (Leave) intent()             {}
func (Start) intent()             {}
func (PlaceBet) intent()          {}
func (SetReady) intent()          {}
func (CancelBet) intent()         {}
func (SitOut) intent()            {}
func (CancelSitOut) intent()      {}
func (PlaceInsurance) intent()    {}
func (PlayerAction) intent()      {}
func (PreSelectAction) intent()   {}
func (UpdateProfile) intent()     {}
func (UpdateConfig) intent()      {}
func (AdvancePhase) intent()      {}
func (SetAutoAdvance) intent()    {}
func (EndGame) intent()           {}
func (Kick) intent()              {}
func (TransferHost) intent()      {}
func (InstallCardSource) intent() {}
func (RemoveCardSource) intent()  {}
