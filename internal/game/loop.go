package game

import (
	"context"
	"runtime/debug"

	"github.com/cardroom/blackjack/internal/deck"
)

// Run drains the room's operation queue on a single goroutine until the
// context is cancelled. Intents, timer expiries and admin queries all
// arrive here, so no lock guards the room state.
func (r *Room) Run(ctx context.Context) error {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-r.ops:
			r.safely(op)
		}
	}
}

// safely runs one operation, recovering a panic so a broken interaction
// never takes the table down for everyone else.
func (r *Room) safely(op func()) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("handler panicked", "panic", rec, "stack", string(debug.Stack()))
		}
	}()
	op()
}

// Submit queues an intent for the room loop. It drops the intent if the
// room has shut down.
func (r *Room) Submit(intent Intent) {
	r.post(func() { r.dispatch(intent) })
}

// post queues a raw operation onto the loop.
func (r *Room) post(op func()) {
	select {
	case r.ops <- op:
	case <-r.done:
	}
}

// Inspect runs fn on the room loop and waits for it, giving read access to
// room state without racing the loop. Returns false if the room has shut
// down.
func (r *Room) Inspect(fn func(*Room)) bool {
	ran := make(chan struct{})
	r.post(func() {
		defer close(ran)
		fn(r)
	})
	select {
	case <-ran:
		return true
	case <-r.done:
		return false
	}
}

// dispatch routes one intent to its handler. The switch is exhaustive over
// the closed intent set.
func (r *Room) dispatch(intent Intent) {
	switch in := intent.(type) {
	case Join:
		r.handleJoin(in)
	case Leave:
		r.handleLeave(in)
	case Start:
		r.handleStart(in)
	case PlaceBet:
		r.handlePlaceBet(in)
	case SetReady:
		r.handleSetReady(in)
	case CancelBet:
		r.handleCancelBet(in)
	case SitOut:
		r.handleSitOut(in)
	case CancelSitOut:
		r.handleCancelSitOut(in)
	case PlaceInsurance:
		r.handlePlaceInsurance(in)
	case PlayerAction:
		r.handlePlayerAction(in)
	case PreSelectAction:
		r.handlePreSelectAction(in)
	case UpdateProfile:
		r.handleUpdateProfile(in)
	case UpdateConfig:
		r.handleUpdateConfig(in)
	case AdvancePhase:
		r.handleAdvancePhase(in)
	case SetAutoAdvance:
		r.handleSetAutoAdvance(in)
	case EndGame:
		r.handleEndGame(in)
	case Kick:
		r.handleKick(in)
	case TransferHost:
		r.handleTransferHost(in)
	case InstallCardSource:
		r.handleInstallCardSource(in)
	case RemoveCardSource:
		r.handleRemoveCardSource()
	default:
		r.log.Warn("unknown intent", "intent", intent)
	}
}

// Accessors for loop-context inspection (admin surface, tests). These must
// only be called from inside Inspect or a handler.

// Phase returns the current phase.
func (r *Room) Phase() Phase { return r.phase }

// RoundNumber returns the monotonic round counter.
func (r *Room) RoundNumber() int { return r.roundNumber }

// Player returns the seated player with the given id.
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// PlayerIDs returns seated player ids in join order.
func (r *Room) PlayerIDs() []string {
	return append([]string(nil), r.joinOrder...)
}

// PlayerCount returns the number of seated players.
func (r *Room) PlayerCount() int { return len(r.players) }

// Config returns the active table config.
func (r *Room) Config() Config { return r.cfg }

// Shoe returns the live shoe, used as the fallback behind scripted
// sources.
func (r *Room) Shoe() deck.CardSource { return r.shoe }

// Penetration reports the shoe's consumed fraction.
func (r *Room) Penetration() float64 { return r.shoe.Penetration() }

// ScriptedSource reports whether a card override is installed.
func (r *Room) ScriptedSource() bool {
	return r.cards != deck.CardSource(r.shoe)
}
