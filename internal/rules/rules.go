// Package rules contains the pure blackjack rule engine: hand valuation,
// legality predicates, dealer policy and payout arithmetic. Everything here
// is stateless; the game package calls in with card slices and amounts.
package rules

import (
	"fmt"

	"github.com/cardroom/blackjack/internal/deck"
)

// Outcome is the result of comparing a player hand against the dealer.
type Outcome string

const (
	Win       Outcome = "win"
	Loss      Outcome = "loss"
	Push      Outcome = "push"
	Blackjack Outcome = "blackjack"
)

// HandStatus tracks the lifecycle of a single hand.
type HandStatus string

const (
	StatusActive    HandStatus = "active"
	StatusStand     HandStatus = "stand"
	StatusBust      HandStatus = "bust"
	StatusBlackjack HandStatus = "blackjack"
)

// HandValue returns the best total for the cards and whether the hand is
// soft (an Ace currently counted as 11). Each Ace is counted as 11 only if
// doing so keeps the total at or below 21 given the remaining aces.
func HandValue(cards []deck.Card) (value int, soft bool) {
	total := 0
	aces := 0

	for _, c := range cards {
		if c.IsAce() {
			aces++
		} else {
			total += c.Value()
		}
	}

	acesAsEleven := 0
	for aces > 0 {
		// An ace counts as 11 only if the rest can still be 1s without busting
		if total+11+(aces-1) <= 21 {
			total += 11
			acesAsEleven++
		} else {
			total++
		}
		aces--
	}

	return total, acesAsEleven > 0
}

// IsBlackjack reports whether the cards form a natural blackjack: exactly
// two cards totalling 21 with one Ace and one ten-value card. When the hand
// came from a split and splitAcesBlackjack is disabled, a qualifying 21 is
// demoted to a plain 21.
func IsBlackjack(cards []deck.Card, fromSplit, splitAcesBlackjack bool) bool {
	if len(cards) != 2 {
		return false
	}
	if fromSplit && !splitAcesBlackjack {
		return false
	}

	value, _ := HandValue(cards)
	if value != 21 {
		return false
	}

	hasAce := cards[0].IsAce() || cards[1].IsAce()
	hasTen := cards[0].IsTenValue() || cards[1].IsTenValue()
	return hasAce && hasTen
}

// IsBust reports whether a hand value exceeds 21.
func IsBust(value int) bool {
	return value > 21
}

// CompareHands resolves a player hand against the dealer.
func CompareHands(playerValue, dealerValue int, playerBlackjack, dealerBlackjack bool) Outcome {
	switch {
	case playerBlackjack && dealerBlackjack:
		return Push
	case playerBlackjack:
		return Win
	case dealerBlackjack:
		return Loss
	case IsBust(playerValue):
		return Loss
	case IsBust(dealerValue):
		return Win
	case playerValue > dealerValue:
		return Win
	case playerValue < dealerValue:
		return Loss
	default:
		return Push
	}
}

// CanSplit reports whether a two-card hand may be split: same rank, or both
// ten-value cards (10/J/Q/K mix splits are allowed).
func CanSplit(cards []deck.Card) bool {
	if len(cards) != 2 {
		return false
	}
	if cards[0].Rank == cards[1].Rank {
		return true
	}
	return cards[0].IsTenValue() && cards[1].IsTenValue()
}

// CanDouble reports whether a hand may be doubled: exactly two cards and no
// prior action taken on the hand.
func CanDouble(cards []deck.Card, hasActed bool) bool {
	return len(cards) == 2 && !hasActed
}

// CanHit reports whether a hand may take another card. A hand sitting on
// exactly 21 stands automatically.
func CanHit(value int, status HandStatus) bool {
	if status != StatusActive {
		return false
	}
	if IsBust(value) {
		return false
	}
	return value != 21
}

// DealerShouldHit implements the house policy: hit below 17, stand on all
// 17s, hard or soft.
func DealerShouldHit(value int) bool {
	return value < 17
}

// Payout returns the total amount credited for a resolved hand, including
// the returned stake where applicable: loss pays 0, push returns the bet,
// win pays 2x, blackjack pays the bet plus bet scaled by the ratio.
func Payout(bet int, result Outcome, blackjackRatio Ratio) int {
	switch result {
	case Loss:
		return 0
	case Push:
		return bet
	case Win:
		return bet * 2
	case Blackjack:
		return bet + blackjackRatio.Apply(bet)
	default:
		return 0
	}
}

// ValidateBet checks a wager against the table limits and the player's
// bankroll. maxBet <= 0 means no table maximum.
func ValidateBet(amount, minBet, maxBet, bankroll int) error {
	if amount < 0 {
		return fmt.Errorf("bet amount must be a positive number")
	}
	if amount < minBet {
		return fmt.Errorf("minimum bet is $%d", minBet)
	}
	if maxBet > 0 && amount > maxBet {
		return fmt.Errorf("maximum bet is $%d", maxBet)
	}
	if amount > bankroll {
		return fmt.Errorf("insufficient funds")
	}
	return nil
}
