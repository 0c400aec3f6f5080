package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/randutil"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// preAction is a queued play decision waiting for its hand's turn.
type preAction struct {
	action    Action
	handIndex int
}

// Room is the authoritative table: phase, seats, turn order, timers. All
// mutation happens on the room's single loop goroutine; clients and timers
// submit intents through Submit.
type Room struct {
	log   *log.Logger
	clock quartz.Clock
	sink  Sink
	stats Recorder

	cfg  Config
	shoe *deck.Shoe
	// cards is the live draw source: the shoe, or a scripted override.
	cards deck.CardSource

	phase       Phase
	roundNumber int

	players map[string]*Player
	// joinOrder drives host succession.
	joinOrder []string
	seats     [NumSeats]string
	dealer    *Dealer

	// turnOrder is the seat-ordered list of players dealt into the
	// current round.
	turnOrder []*Player
	curPlayer int
	curHand   int

	insurance        map[string]int
	insuranceDecided map[string]bool
	preActions       map[string]preAction

	autoAdvance bool
	// phaseEnd is the pending deadline action: what happens when the
	// current phase's timer fires or an explicit advance arrives.
	phaseEnd func()
	timer    *quartz.Timer
	timerGen int

	ops  chan func()
	done chan struct{}
}

// Options configures optional room collaborators.
type Options struct {
	Logger   *log.Logger
	Clock    quartz.Clock
	Recorder Recorder
	Seed     int64
}

// NewRoom builds a room in the lobby phase.
func NewRoom(cfg Config, sink Sink, opts Options) *Room {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	if opts.Recorder == nil {
		opts.Recorder = NopRecorder{}
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	shoe := deck.NewShoe(cfg.DeckCount, randutil.New(opts.Seed))
	return &Room{
		log:              opts.Logger.WithPrefix("room"),
		clock:            opts.Clock,
		sink:             sink,
		stats:            opts.Recorder,
		cfg:              cfg,
		shoe:             shoe,
		cards:            shoe,
		phase:            PhaseLobby,
		players:          make(map[string]*Player),
		dealer:           NewDealer(),
		insurance:        make(map[string]int),
		insuranceDecided: make(map[string]bool),
		preActions:       make(map[string]preAction),
		autoAdvance:      true,
		ops:              make(chan func(), 256),
		done:             make(chan struct{}),
	}
}

// draw pulls the next card from the live source.
func (r *Room) draw() deck.Card {
	return r.cards.Draw()
}

// armDeadline installs the current phase's end action. With auto-advance on
// it fires after d; otherwise it waits for an explicit AdvancePhase. Any
// previous deadline is cancelled first, so a stale timer can never fire
// into a later phase.
func (r *Room) armDeadline(d time.Duration, fire func()) {
	r.clearDeadline()
	r.phaseEnd = fire

	if !r.autoAdvance || d <= 0 {
		return
	}

	r.timerGen++
	gen := r.timerGen
	r.timer = r.clock.AfterFunc(d, func() {
		r.post(func() {
			if r.timerGen == gen {
				r.fireDeadline()
			}
		})
	})
}

// clearDeadline drops the pending phase end and invalidates any in-flight
// timer callback.
func (r *Room) clearDeadline() {
	r.phaseEnd = nil
	r.timerGen++
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// fireDeadline runs the pending phase end, if any.
func (r *Room) fireDeadline() {
	if r.phaseEnd == nil {
		return
	}
	fire := r.phaseEnd
	r.clearDeadline()
	fire()
}

// handleJoin seats a new player at the lowest free seat.
func (r *Room) handleJoin(in Join) {
	if in.Name == "" {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "name is required"})
		return
	}
	if _, ok := r.players[in.PlayerID]; ok {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "already seated"})
		return
	}

	seat := -1
	for i, id := range r.seats {
		if id == "" {
			seat = i
			break
		}
	}
	if seat == -1 {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "table is full"})
		return
	}

	p := NewPlayer(in.PlayerID, in.Name, seat+1, r.cfg.StartingBankroll)
	if len(r.players) == 0 {
		p.IsHost = true
	}
	if r.phase != PhaseLobby && r.phase != PhaseBetting {
		// joins mid-round watch until the next betting phase
		p.Participation = SittingOut
	}

	r.players[in.PlayerID] = p
	r.joinOrder = append(r.joinOrder, in.PlayerID)
	r.seats[seat] = in.PlayerID

	r.log.Info("player joined", "player", in.Name, "seat", p.Seat, "host", p.IsHost)
	r.sink.Broadcast(PlayerJoined{PlayerID: p.ID, PlayerName: p.Name, Seat: p.Seat})
	r.broadcastState()
}

// handleLeave removes a player. Mid-turn departures stand their hands.
func (r *Room) handleLeave(in Leave) {
	r.removePlayer(in.PlayerID)
}

func (r *Room) removePlayer(id string) {
	p, ok := r.players[id]
	if !ok {
		return
	}

	wasTurn := r.phase == PhasePlaying && r.currentPlayer() == p
	wasHost := p.IsHost

	delete(r.players, id)
	r.seats[p.Seat-1] = ""
	for i, jid := range r.joinOrder {
		if jid == id {
			r.joinOrder = append(r.joinOrder[:i], r.joinOrder[i+1:]...)
			break
		}
	}
	delete(r.insurance, id)
	delete(r.insuranceDecided, id)
	delete(r.preActions, id)

	for i, tp := range r.turnOrder {
		if tp == p {
			r.turnOrder = append(r.turnOrder[:i], r.turnOrder[i+1:]...)
			if i < r.curPlayer {
				r.curPlayer--
			}
			break
		}
	}

	r.log.Info("player left", "player", p.Name)
	r.sink.Broadcast(PlayerLeft{PlayerID: p.ID, PlayerName: p.Name})

	if len(r.players) == 0 {
		r.returnToLobby()
		return
	}

	if wasHost {
		next := r.players[r.joinOrder[0]]
		next.IsHost = true
		r.sink.Broadcast(HostTransferred{PlayerID: next.ID})
	}

	switch r.phase {
	case PhaseBetting:
		r.broadcastState()
		r.maybeCloseBetting()
	case PhaseInsurance:
		r.broadcastState()
		r.maybeCloseInsurance()
	case PhasePlaying:
		if wasTurn {
			// the cursor already points at the next hand after the
			// removal above
			r.curHand = 0
			r.broadcastState()
			r.continueTurns()
			return
		}
		r.broadcastState()
		if len(r.turnOrder) == 0 {
			r.startDealerPhase()
		}
	default:
		r.broadcastState()
	}
}

// handleUpdateProfile changes name and color in place.
func (r *Room) handleUpdateProfile(in UpdateProfile) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if in.Name != "" {
		p.Name = in.Name
	}
	if in.Color != "" {
		p.Color = in.Color
	}
	r.broadcastState()
}

// handleUpdateConfig replaces the table config. Lobby only, host only.
func (r *Room) handleUpdateConfig(in UpdateConfig) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can change the table config"})
		return
	}
	if r.phase != PhaseLobby {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "config can only change in the lobby"})
		return
	}
	if err := in.Config.Validate(); err != nil {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: err.Error()})
		return
	}

	if in.Config.DeckCount != r.cfg.DeckCount {
		r.shoe = deck.NewShoe(in.Config.DeckCount, randutil.New(time.Now().UnixNano()))
		r.cards = r.shoe
	}
	r.cfg = in.Config
	r.log.Info("table config updated", "minBet", r.cfg.MinBet, "maxBet", r.cfg.MaxBet, "decks", r.cfg.DeckCount)
	r.broadcastState()
}

// handleTransferHost moves host status. Host only.
func (r *Room) handleTransferHost(in TransferHost) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can transfer host"})
		return
	}
	target, ok := r.players[in.TargetID]
	if !ok {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "no such player"})
		return
	}
	if target == p {
		return
	}

	p.IsHost = false
	target.IsHost = true
	r.sink.Broadcast(HostTransferred{PlayerID: target.ID})
	r.broadcastState()
}

// handleKick removes another player. Host only.
func (r *Room) handleKick(in Kick) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can kick players"})
		return
	}
	if in.TargetID == in.PlayerID {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "cannot kick yourself"})
		return
	}
	r.removePlayer(in.TargetID)
}

// handleSetAutoAdvance toggles timer-driven progression.
func (r *Room) handleSetAutoAdvance(in SetAutoAdvance) {
	if r.phase != PhaseLobby && r.phase != PhaseBetting {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "auto-advance can only change in lobby or betting"})
		return
	}
	if r.autoAdvance == in.Enabled {
		return
	}

	r.autoAdvance = in.Enabled
	if !in.Enabled {
		// keep the pending phase end, drop its timer
		r.timerGen++
		if r.timer != nil {
			r.timer.Stop()
			r.timer = nil
		}
	} else if r.phase == PhaseBetting && r.phaseEnd != nil {
		fire := r.phaseEnd
		r.armDeadline(r.cfg.BettingTime, fire)
	}
	r.log.Info("auto-advance toggled", "enabled", in.Enabled)
	r.broadcastState()
}

// handleInstallCardSource swaps in a scripted draw source. Lobby or
// betting only.
func (r *Room) handleInstallCardSource(in InstallCardSource) {
	if r.phase != PhaseLobby && r.phase != PhaseBetting {
		r.log.Warn("card source change rejected", "phase", r.phase)
		return
	}
	if in.Source == nil {
		r.cards = r.shoe
		return
	}
	r.cards = in.Source
	r.log.Info("scripted card source installed")
}

// handleRemoveCardSource restores the live shoe.
func (r *Room) handleRemoveCardSource() {
	if r.phase != PhaseLobby && r.phase != PhaseBetting {
		r.log.Warn("card source change rejected", "phase", r.phase)
		return
	}
	r.cards = r.shoe
	r.log.Info("scripted card source removed")
}

// returnToLobby cancels all round state and drops back to the lobby.
func (r *Room) returnToLobby() {
	r.clearDeadline()
	r.phase = PhaseLobby
	r.dealer.Reset()
	r.turnOrder = nil
	r.curPlayer = 0
	r.curHand = 0
	r.insurance = make(map[string]int)
	r.insuranceDecided = make(map[string]bool)
	r.preActions = make(map[string]preAction)

	for _, p := range r.players {
		p.CurrentBet = 0
		p.SideBets = make(map[sidebet.Kind]int)
		p.Hands = nil
	}
	r.broadcastState()
}

// currentPlayer returns the player whose turn it is, or nil.
func (r *Room) currentPlayer() *Player {
	if r.curPlayer < 0 || r.curPlayer >= len(r.turnOrder) {
		return nil
	}
	return r.turnOrder[r.curPlayer]
}

// broadcastState pushes the full snapshot to every client.
func (r *Room) broadcastState() {
	r.sink.Broadcast(r.snapshot())
}

// snapshot renders the whole room. The dealer's hole card is redacted
// until the dealer or results phase.
func (r *Room) snapshot() GameState {
	hideHole := r.phase != PhaseDealer && r.phase != PhaseResults && !r.dealer.HoleRevealed

	players := make([]PlayerSnapshot, 0, len(r.players))
	for _, id := range r.joinOrder {
		p := r.players[id]
		players = append(players, p.snapshot(r.insurance[id]))
	}

	state := GameState{
		Phase:            r.phase,
		RoundNumber:      r.roundNumber,
		Config:           r.cfg.snapshot(),
		Players:          players,
		Seats:            r.seats,
		Dealer:           r.dealer.Snapshot(hideHole),
		CurrentHandIndex: r.curHand,
		DeckPenetration:  r.shoe.Penetration(),
		AutoAdvance:      r.autoAdvance,
	}
	if p := r.currentPlayer(); p != nil && r.phase == PhasePlaying {
		state.CurrentPlayer = p.ID
	}
	return state
}
