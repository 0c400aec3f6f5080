package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// finishRound settles every hand and side bet, credits bankrolls, records
// statistics, and schedules the next betting phase.
func (r *Room) finishRound() {
	r.clearDeadline()
	r.phase = PhaseResults

	dealerValue, _ := r.dealer.Value()
	dealerUp, _ := r.dealer.UpCard()

	results := make([]PlayerResult, 0, len(r.turnOrder))
	for _, p := range r.turnOrder {
		pr := PlayerResult{PlayerID: p.ID, PlayerName: p.Name}

		for i, h := range p.Hands {
			value, _ := h.Value()
			outcome := rules.CompareHands(
				value, dealerValue,
				h.Status == rules.StatusBlackjack, r.dealer.HasBlackjack,
			)
			if outcome == rules.Win && h.Status == rules.StatusBlackjack {
				outcome = rules.Blackjack
			}
			payout := rules.Payout(h.Bet, outcome, r.cfg.BlackjackPayout)
			p.Bankroll += payout
			p.Stats.RecordHand(outcome, h.Bet, payout)

			pr.Hands = append(pr.Hands, HandResult{
				HandIndex: i,
				Cards:     append([]deck.Card(nil), h.Cards...),
				Value:     value,
				Outcome:   outcome,
				Bet:       h.Bet,
				Payout:    payout,
			})
			pr.TotalPayout += payout
		}

		for _, kind := range sidebet.Kinds() {
			stake, staked := p.SideBets[kind]
			if !staked || stake == 0 {
				continue
			}

			var res sidebet.Result
			first := p.FirstTwo()
			switch kind {
			case sidebet.PerfectPairsBet:
				if len(first) >= 2 {
					res = sidebet.PerfectPairs(first[0], first[1])
				}
			case sidebet.BustItBet:
				res = sidebet.BustIt(r.dealer.Cards)
			case sidebet.TwentyOnePlus3:
				if len(first) >= 2 {
					res = sidebet.TwentyOnePlusThree(first[0], first[1], dealerUp)
				}
			}

			payout := res.Payout(stake)
			p.Bankroll += payout
			r.stats.RecordSideBet(kind, stake, payout)

			pr.SideBets = append(pr.SideBets, SideBetOutcome{
				Kind:       kind,
				Stake:      stake,
				Won:        res.Won,
				HandType:   res.HandType,
				Multiplier: res.Multiplier,
				Payout:     payout,
			})
			pr.TotalPayout += payout
		}

		if stake, ok := r.insurance[p.ID]; ok {
			ins := InsuranceOutcome{Stake: stake}
			if r.dealer.HasBlackjack {
				// already credited at the insurance close
				ins.Won = true
				ins.Payout = stake + r.cfg.InsurancePayout.Apply(stake)
			}
			pr.Insurance = &ins
		}

		pr.Bankroll = p.Bankroll
		results = append(results, pr)
	}

	summary := RoundResults{
		RoundNumber:     r.roundNumber,
		DealerHand:      r.dealer.Snapshot(false).Cards,
		DealerValue:     dealerValue,
		DealerBlackjack: r.dealer.HasBlackjack,
		DealerBust:      r.dealer.IsBust,
		Results:         results,
	}

	r.stats.RecordRound(RoundSummary{
		RoundNumber:     r.roundNumber,
		CompletedAt:     r.clock.Now(),
		DealerCards:     summary.DealerHand,
		DealerValue:     dealerValue,
		DealerBlackjack: r.dealer.HasBlackjack,
		DealerBust:      r.dealer.IsBust,
		Results:         results,
	})

	r.log.Info("round settled",
		"round", r.roundNumber,
		"dealerValue", dealerValue,
		"dealerBust", r.dealer.IsBust,
		"players", len(results))

	r.sink.Broadcast(summary)
	r.broadcastState()
	r.armDeadline(r.cfg.RoundDelay, r.startBetting)
}
