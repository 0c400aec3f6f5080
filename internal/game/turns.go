package game

import (
	"github.com/cardroom/blackjack/internal/rules"
)

// startPlaying opens the action phase, or skips straight to the dealer if
// nobody holds a playable hand (every hand a blackjack or instant stand).
func (r *Room) startPlaying() {
	r.phase = PhasePlaying
	r.curPlayer = 0
	r.curHand = 0
	r.broadcastState()
	r.continueTurns()
}

// continueTurns moves the cursor to the next active hand and opens its
// turn. With no active hands left across the table it hands over to the
// dealer.
func (r *Room) continueTurns() {
	for r.curPlayer < len(r.turnOrder) {
		p := r.turnOrder[r.curPlayer]
		for r.curHand < len(p.Hands) {
			if p.Hands[r.curHand].IsActive() {
				r.beginTurn()
				return
			}
			r.curHand++
		}
		r.curPlayer++
		r.curHand = 0
	}
	r.startDealerPhase()
}

// beginTurn opens the current hand: a matching queued pre-action runs
// immediately, otherwise the table is told whose turn it is and the action
// timer starts.
func (r *Room) beginTurn() {
	p := r.currentPlayer()

	if pa, ok := r.preActions[p.ID]; ok {
		switch {
		case pa.handIndex == r.curHand:
			delete(r.preActions, p.ID)
			r.executeAction(p, pa.action, pa.handIndex)
			return
		case pa.handIndex < r.curHand || pa.handIndex >= len(p.Hands):
			// the cursor already passed that hand, or it never existed:
			// dropped, never replayed
			delete(r.preActions, p.ID)
		default:
			// queued for a later split hand: waits for the cursor
		}
	}

	r.broadcastState()
	r.sink.Broadcast(PlayerTurn{
		PlayerID:         p.ID,
		HandIndex:        r.curHand,
		TimeLimitMS:      r.cfg.ActionTime.Milliseconds(),
		AvailableActions: p.AvailableActions(r.curHand),
	})
	r.armDeadline(r.cfg.ActionTime, r.timeoutStand)
}

// timeoutStand stands the current hand when its action timer expires.
func (r *Room) timeoutStand() {
	p := r.currentPlayer()
	if p == nil || r.phase != PhasePlaying {
		return
	}
	r.log.Info("action timeout, standing", "player", p.Name, "hand", r.curHand)
	if err := p.Stand(r.curHand); err == nil {
		r.broadcastState()
	}
	r.advanceCursor()
}

// handlePlayerAction validates turn ownership and runs the action.
func (r *Room) handlePlayerAction(in PlayerAction) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if r.phase != PhasePlaying {
		r.sink.SendTo(in.PlayerID, ActionFailed{Reason: "not in the play phase"})
		return
	}
	if !in.Action.Valid() {
		r.sink.SendTo(in.PlayerID, ActionFailed{Reason: "unknown action"})
		return
	}
	// turn ownership re-checked at the last moment; a queued intent can
	// arrive after the cursor has moved on
	if r.currentPlayer() != p || in.HandIndex != r.curHand {
		r.sink.SendTo(in.PlayerID, ActionFailed{Reason: "not your turn"})
		return
	}

	r.clearDeadline()
	r.executeAction(p, in.Action, in.HandIndex)
}

// handlePreSelectAction queues an action for a hand whose turn has not
// arrived yet.
func (r *Room) handlePreSelectAction(in PreSelectAction) {
	p, ok := r.players[in.PlayerID]
	if !ok {
		return
	}
	if !in.Action.Valid() {
		r.sink.SendTo(in.PlayerID, ActionFailed{Reason: "unknown action"})
		return
	}
	if r.phase != PhaseDealing && r.phase != PhaseInsurance && r.phase != PhasePlaying {
		r.sink.SendTo(in.PlayerID, ActionFailed{Reason: "nothing to pre-select now"})
		return
	}
	if r.phase == PhasePlaying && r.currentPlayer() == p && in.HandIndex == r.curHand {
		// it is already their turn, play it directly
		r.clearDeadline()
		r.executeAction(p, in.Action, in.HandIndex)
		return
	}

	r.preActions[p.ID] = preAction{action: in.Action, handIndex: in.HandIndex}
	r.sink.SendTo(in.PlayerID, ActionConfirmed{Action: in.Action, HandIndex: in.HandIndex})
}

// executeAction applies one validated play decision to the current hand
// and moves the cursor as the rules dictate.
func (r *Room) executeAction(p *Player, action Action, handIndex int) {
	switch action {
	case ActionHit:
		if err := p.Hit(handIndex); err != nil {
			r.actionRejected(p, err)
			return
		}
		card := r.draw()
		p.AddCard(card, handIndex, r.cfg.SplitAcesBlackjack)
		r.sink.SendTo(p.ID, ActionConfirmed{Action: action, HandIndex: handIndex})
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: card, HandIndex: handIndex})
		if h := p.Hands[handIndex]; h.IsActive() {
			// still live, same hand keeps the turn
			r.beginTurn()
			return
		}
		if p.Hands[handIndex].Status == rules.StatusBust {
			p.Stats.Busts++
		}
		r.broadcastState()
		r.advanceCursor()

	case ActionStand:
		if err := p.Stand(handIndex); err != nil {
			r.actionRejected(p, err)
			return
		}
		r.sink.SendTo(p.ID, ActionConfirmed{Action: action, HandIndex: handIndex})
		r.broadcastState()
		r.advanceCursor()

	case ActionDouble:
		if err := p.Double(handIndex); err != nil {
			r.actionRejected(p, err)
			return
		}
		card := r.draw()
		p.AddCard(card, handIndex, r.cfg.SplitAcesBlackjack)
		h := p.Hands[handIndex]
		if h.IsActive() {
			h.Stand()
		}
		if h.Status == rules.StatusBust {
			p.Stats.Busts++
		}
		r.sink.SendTo(p.ID, ActionConfirmed{Action: action, HandIndex: handIndex})
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: card, HandIndex: handIndex})
		r.broadcastState()
		r.advanceCursor()

	case ActionSplit:
		if err := p.Split(handIndex); err != nil {
			r.actionRejected(p, err)
			return
		}
		// each split hand draws its second card in play order
		first := r.draw()
		p.AddCard(first, handIndex, r.cfg.SplitAcesBlackjack)
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: first, HandIndex: handIndex})
		second := r.draw()
		p.AddCard(second, handIndex+1, r.cfg.SplitAcesBlackjack)
		r.sink.Broadcast(CardDealt{PlayerID: p.ID, Card: second, HandIndex: handIndex + 1})

		r.sink.SendTo(p.ID, ActionConfirmed{Action: action, HandIndex: handIndex})
		r.broadcastState()
		if p.Hands[handIndex].IsActive() {
			r.beginTurn()
			return
		}
		r.advanceCursor()
	}
}

// actionRejected acks a rule failure and restores the turn timer if the
// hand is still live.
func (r *Room) actionRejected(p *Player, err error) {
	r.sink.SendTo(p.ID, ActionFailed{Reason: err.Error()})
	if r.phase == PhasePlaying && r.currentPlayer() == p {
		r.armDeadline(r.cfg.ActionTime, r.timeoutStand)
	}
}

// advanceCursor moves past the current hand and continues the turn loop.
func (r *Room) advanceCursor() {
	r.clearDeadline()
	r.curHand++
	r.continueTurns()
}
