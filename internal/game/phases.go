package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// handleStart moves from the lobby into the first betting phase.
func (r *Room) handleStart(in Start) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can start the game"})
		return
	}
	if r.phase != PhaseLobby {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "game already started"})
		return
	}
	if len(r.players) == 0 {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "need at least one player"})
		return
	}

	r.log.Info("game started", "players", len(r.players))
	r.startBetting()
}

// startBetting opens a new round's betting window.
func (r *Room) startBetting() {
	r.clearDeadline()
	r.phase = PhaseBetting
	r.roundNumber++

	r.dealer.Reset()
	r.turnOrder = nil
	r.curPlayer = 0
	r.curHand = 0
	r.insurance = make(map[string]int)
	r.insuranceDecided = make(map[string]bool)
	r.preActions = make(map[string]preAction)

	for _, p := range r.players {
		p.ResetForRound(r.cfg.MinBet)
	}

	r.log.Info("betting opened", "round", r.roundNumber)
	r.sink.Broadcast(BettingPhase{
		TimeLimitMS: r.cfg.BettingTime.Milliseconds(),
		MinBet:      r.cfg.MinBet,
		MaxBet:      r.cfg.MaxBet,
	})
	r.broadcastState()
	r.armDeadline(r.cfg.BettingTime, r.closeBetting)
}

// handlePlaceBet stages a main bet plus side bets for a player.
func (r *Room) handlePlaceBet(in PlaceBet) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhaseBetting {
		r.sink.SendTo(in.PlayerID, BetFailed{Reason: "betting is closed"})
		return
	}
	if p.Participation == SittingOut || p.Participation == Eliminated {
		r.sink.SendTo(in.PlayerID, BetFailed{Reason: "not in this round"})
		return
	}

	if err := p.StageBets(in.Amount, in.SideBets, r.cfg); err != nil {
		r.sink.SendTo(in.PlayerID, BetFailed{Reason: err.Error()})
		return
	}

	r.sink.SendTo(in.PlayerID, BetPlaced{Amount: p.CurrentBet, SideBets: p.SideBets})
	r.broadcastState()
}

// handleSetReady locks in the staged bet. One-way for the round.
func (r *Room) handleSetReady(in SetReady) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhaseBetting {
		r.sink.SendTo(in.PlayerID, ReadyFailed{Reason: "betting is closed"})
		return
	}
	if p.Participation != Undecided {
		r.sink.SendTo(in.PlayerID, ReadyFailed{Reason: "cannot ready now"})
		return
	}
	if p.CurrentBet < r.cfg.MinBet {
		r.sink.SendTo(in.PlayerID, ReadyFailed{Reason: "place a bet first"})
		return
	}

	p.Participation = Ready
	r.sink.SendTo(in.PlayerID, ReadyConfirmed{})
	r.broadcastState()
	r.maybeCloseBetting()
}

// handleCancelBet clears staged wagers without touching the bankroll.
func (r *Room) handleCancelBet(in CancelBet) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhaseBetting {
		r.sink.SendTo(in.PlayerID, BetFailed{Reason: "betting is closed"})
		return
	}
	if err := p.CancelBet(); err != nil {
		r.sink.SendTo(in.PlayerID, BetFailed{Reason: err.Error()})
		return
	}
	r.broadcastState()
}

// handleSitOut skips the round, clearing any staged bet.
func (r *Room) handleSitOut(in SitOut) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhaseBetting && r.phase != PhaseLobby {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "cannot sit out now"})
		return
	}
	if p.Participation == Ready || p.Participation == Eliminated {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "cannot sit out now"})
		return
	}

	p.Participation = SittingOut
	p.CurrentBet = 0
	p.SideBets = make(map[sidebet.Kind]int)
	r.broadcastState()
	if r.phase == PhaseBetting {
		r.maybeCloseBetting()
	}
}

// handleCancelSitOut rejoins play.
func (r *Room) handleCancelSitOut(in CancelSitOut) {
	p, ok := r.players[in.PlayerID]
	if !ok || p.Participation != SittingOut {
		return
	}
	if r.phase != PhaseBetting && r.phase != PhaseLobby {
		// rejoin takes effect at the next betting phase anyway
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "rejoin at the next round"})
		return
	}
	p.Participation = Undecided
	r.broadcastState()
}

// maybeCloseBetting ends betting early once every deciding player is ready.
func (r *Room) maybeCloseBetting() {
	if r.phase != PhaseBetting {
		return
	}

	ready := 0
	for _, p := range r.players {
		switch p.Participation {
		case Undecided:
			return
		case Ready:
			ready++
		}
	}
	if ready == 0 {
		return
	}
	r.fireDeadlineAs(r.closeBetting)
}

// fireDeadlineAs cancels the pending deadline and runs fn. Used when a
// phase closes early for its own reasons rather than by timer.
func (r *Room) fireDeadlineAs(fn func()) {
	r.clearDeadline()
	fn()
}

// closeBetting commits bets: verifies affordability once more, deducts the
// total wager exactly once, and deals each committed player an initial
// hand. Players with no bet sit the round out.
func (r *Room) closeBetting() {
	r.clearDeadline()

	committed := make([]*Player, 0, len(r.players))
	for _, id := range r.seatOrder() {
		p := r.players[id]
		if p.Participation == SittingOut || p.Participation == Eliminated {
			continue
		}
		if p.CurrentBet < r.cfg.MinBet {
			// timer expired before they placed a bet
			p.Participation = SittingOut
			p.CurrentBet = 0
			p.SideBets = make(map[sidebet.Kind]int)
			continue
		}

		total := p.TotalWagered()
		if total > p.Bankroll {
			r.autoFold(p, FoldInsufficientFunds)
			continue
		}

		p.Bankroll -= total
		if p.Bankroll < 0 {
			// restore and fold rather than leave a negative balance
			p.Bankroll += total
			r.autoFold(p, FoldDeductionError)
			continue
		}

		p.Participation = Ready
		p.InitializeHand()
		committed = append(committed, p)
	}

	if len(committed) == 0 {
		r.log.Info("no bets committed, reopening betting")
		r.startBetting()
		return
	}

	r.turnOrder = committed
	r.startDealing()
}

// autoFold pulls a player from the round at the commit boundary.
func (r *Room) autoFold(p *Player, reason string) {
	p.Participation = SittingOut
	p.CurrentBet = 0
	p.SideBets = make(map[sidebet.Kind]int)
	p.Hands = nil
	r.log.Warn("player auto-folded", "player", p.Name, "reason", reason)
	r.sink.Broadcast(PlayerAutoFolded{PlayerID: p.ID, Reason: reason})
}

// seatOrder lists seated player ids in seat order.
func (r *Room) seatOrder() []string {
	ids := make([]string, 0, len(r.players))
	for _, id := range r.seats {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// startDealing runs the deterministic deal: one card around the table, the
// dealer's up card, a second card around, the dealer's hole card.
func (r *Room) startDealing() {
	r.phase = PhaseDealing
	r.log.Info("dealing", "round", r.roundNumber, "players", len(r.turnOrder))

	for _, p := range r.turnOrder {
		card := r.draw()
		p.AddCard(card, 0, r.cfg.SplitAcesBlackjack)
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: card, HandIndex: 0})
		r.broadcastState()
	}

	up := r.draw()
	r.dealer.AddCard(up)
	r.sink.Broadcast(DealerCard{Card: up, FaceUp: true})
	r.broadcastState()

	for _, p := range r.turnOrder {
		card := r.draw()
		p.AddCard(card, 0, r.cfg.SplitAcesBlackjack)
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: card, HandIndex: 0})
		r.broadcastState()
	}

	hole := r.draw()
	r.dealer.AddCard(hole)
	r.sink.Broadcast(DealerCard{Card: deck.Hidden, FaceUp: false})
	r.broadcastState()

	switch {
	case r.dealer.ShowsAce():
		r.startInsurance()
	case r.dealer.HasBlackjack:
		// ten-value up card, peeked natural: straight to settlement
		r.dealer.Reveal()
		if hole, ok := r.dealer.HoleCard(); ok {
			r.sink.Broadcast(DealerReveal{HoleCard: hole})
		}
		r.finishRound()
	default:
		r.startPlaying()
	}
}

// startInsurance opens the insurance window after an Ace up card.
func (r *Room) startInsurance() {
	r.phase = PhaseInsurance
	r.log.Info("insurance offered", "round", r.roundNumber)
	r.sink.Broadcast(InsuranceOffered{TimeLimitMS: r.cfg.InsuranceTime.Milliseconds()})
	r.broadcastState()
	r.armDeadline(r.cfg.InsuranceTime, r.closeInsurance)
}

// handlePlaceInsurance records an accept or decline. Accepting stakes half
// the main bet, deducted immediately.
func (r *Room) handlePlaceInsurance(in PlaceInsurance) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhaseInsurance {
		r.sink.SendTo(in.PlayerID, InsuranceFailed{Reason: "insurance is not on offer"})
		return
	}
	if !r.inRound(p) {
		r.sink.SendTo(in.PlayerID, InsuranceFailed{Reason: "not in this round"})
		return
	}
	if r.insuranceDecided[p.ID] {
		r.sink.SendTo(in.PlayerID, InsuranceFailed{Reason: "already decided"})
		return
	}

	if !in.Accept {
		r.insuranceDecided[p.ID] = true
		r.sink.SendTo(in.PlayerID, InsurancePlaced{Amount: 0})
		r.broadcastState()
		r.maybeCloseInsurance()
		return
	}

	stake := p.CurrentBet / 2
	if stake <= 0 || stake > p.Bankroll {
		r.sink.SendTo(in.PlayerID, InsuranceFailed{Reason: "insufficient funds for insurance"})
		return
	}

	p.Bankroll -= stake
	p.Stats.InsuranceTaken++
	r.insurance[p.ID] = stake
	r.insuranceDecided[p.ID] = true
	r.sink.SendTo(in.PlayerID, InsurancePlaced{Amount: stake})
	r.broadcastState()
	r.maybeCloseInsurance()
}

// maybeCloseInsurance ends the window early once every live player decided.
func (r *Room) maybeCloseInsurance() {
	if r.phase != PhaseInsurance {
		return
	}
	for _, p := range r.turnOrder {
		if !r.insuranceDecided[p.ID] {
			return
		}
	}
	r.fireDeadlineAs(r.closeInsurance)
}

// closeInsurance peeks the hole card. A dealer natural pays insurance and
// settles the round immediately; otherwise insurance stakes are forfeit
// and play begins.
func (r *Room) closeInsurance() {
	r.clearDeadline()

	if r.dealer.HasBlackjack {
		r.dealer.Reveal()
		if hole, ok := r.dealer.HoleCard(); ok {
			r.sink.Broadcast(DealerReveal{HoleCard: hole})
		}
		for id, stake := range r.insurance {
			p, ok := r.players[id]
			if !ok {
				continue
			}
			payout := stake + r.cfg.InsurancePayout.Apply(stake)
			p.Bankroll += payout
			p.Stats.InsuranceWon++
		}
		r.log.Info("dealer blackjack, insurance paid", "round", r.roundNumber)
		r.finishRound()
		return
	}

	// no natural: stakes already deducted stay forfeit
	r.log.Info("no dealer blackjack, insurance forfeited", "round", r.roundNumber)
	r.startPlaying()
}

// inRound reports whether the player was dealt into the current round.
func (r *Room) inRound(p *Player) bool {
	for _, tp := range r.turnOrder {
		if tp == p {
			return true
		}
	}
	return false
}

// startDealerPhase reveals the hole card and draws out the dealer hand.
func (r *Room) startDealerPhase() {
	r.clearDeadline()
	r.phase = PhaseDealer
	r.dealer.Reveal()
	if hole, ok := r.dealer.HoleCard(); ok {
		r.sink.Broadcast(DealerReveal{HoleCard: hole})
	}
	r.broadcastState()

	if r.autoAdvance && r.cfg.DealerDrawDelay > 0 {
		r.dealerStep()
		return
	}
	// pacing is cosmetic; without timers the dealer draws out immediately
	for r.dealer.ShouldHit() {
		r.dealerDraw()
	}
	r.finishRound()
}

// dealerStep schedules one paced dealer draw at a time so intents keep
// being serviced between draws.
func (r *Room) dealerStep() {
	if !r.dealer.ShouldHit() {
		r.finishRound()
		return
	}
	r.armDeadline(r.cfg.DealerDrawDelay, func() {
		r.dealerDraw()
		r.dealerStep()
	})
}

func (r *Room) dealerDraw() {
	card := r.draw()
	r.dealer.AddCard(card)
	r.sink.Broadcast(DealerCard{Card: card, FaceUp: true})
	r.broadcastState()
}

// handleAdvancePhase fires the pending phase deadline. Host only: firing
// it mid-turn stands the live hand.
func (r *Room) handleAdvancePhase(in AdvancePhase) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can advance the phase"})
		return
	}
	if r.phaseEnd == nil {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "nothing to advance"})
		return
	}
	r.fireDeadline()
}

// handleEndGame drops back to the lobby from any phase. Host only.
func (r *Room) handleEndGame(in EndGame) {
	p, ok := r.players[in.PlayerID]
	if !ok || !p.IsHost {
		r.sink.SendTo(in.PlayerID, ErrorEvent{Reason: "only the host can end the game"})
		return
	}
	r.log.Info("game ended by host", "player", p.Name)
	r.returnToLobby()
}
