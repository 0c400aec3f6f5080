// Package sidebet evaluates the optional side wagers offered alongside the
// main blackjack bet: Perfect Pairs, Bust It and 21+3. Evaluators are pure
// functions over the dealt cards; the game package handles stakes and
// settlement.
package sidebet

import (
	"github.com/cardroom/blackjack/internal/deck"
)

// Kind identifies a side bet type on the wire.
type Kind string

const (
	PerfectPairsBet Kind = "perfectPairs"
	BustItBet       Kind = "bustIt"
	TwentyOnePlus3  Kind = "twentyOnePlusThree"
)

// Kinds lists every offered side bet in display order.
func Kinds() []Kind {
	return []Kind{PerfectPairsBet, BustItBet, TwentyOnePlus3}
}

// Valid reports whether k names a known side bet.
func (k Kind) Valid() bool {
	switch k {
	case PerfectPairsBet, BustItBet, TwentyOnePlus3:
		return true
	}
	return false
}

// Result describes the outcome of one evaluated side bet. A losing bet has
// Won false and zero Multiplier; a winning bet pays stake times Multiplier
// plus the returned stake.
type Result struct {
	Kind       Kind   `json:"kind"`
	Won        bool   `json:"won"`
	HandType   string `json:"handType,omitempty"`
	Multiplier int    `json:"multiplier"`
}

// Payout returns the total credited for the given stake, including the
// returned stake on a win.
func (r Result) Payout(stake int) int {
	if !r.Won {
		return 0
	}
	return stake + stake*r.Multiplier
}

// PerfectPairs evaluates the player's first two cards. Perfect pair is the
// identical card, colored pair matches rank and color, mixed pair matches
// rank only.
func PerfectPairs(first, second deck.Card) Result {
	r := Result{Kind: PerfectPairsBet}
	if first.Rank != second.Rank {
		return r
	}

	switch {
	case first.Suit == second.Suit:
		r.Won, r.HandType, r.Multiplier = true, "perfect pair", 25
	case first.IsRed() == second.IsRed():
		r.Won, r.HandType, r.Multiplier = true, "colored pair", 12
	default:
		r.Won, r.HandType, r.Multiplier = true, "mixed pair", 6
	}
	return r
}

// BustIt pays when the dealer busts, scaled by how many cards it took.
func BustIt(dealerCards []deck.Card) Result {
	r := Result{Kind: BustItBet}

	if bestValue(dealerCards) <= 21 {
		return r
	}

	r.Won = true
	switch n := len(dealerCards); {
	case n <= 3:
		r.HandType, r.Multiplier = "bust with 3 cards", 2
	case n == 4:
		r.HandType, r.Multiplier = "bust with 4 cards", 4
	case n == 5:
		r.HandType, r.Multiplier = "bust with 5 cards", 15
	case n == 6:
		r.HandType, r.Multiplier = "bust with 6 cards", 50
	case n == 7:
		r.HandType, r.Multiplier = "bust with 7 cards", 100
	default:
		r.HandType, r.Multiplier = "bust with 8+ cards", 250
	}
	return r
}

// TwentyOnePlusThree evaluates the player's first two cards plus the
// dealer's up card as a three-card poker hand. Categories are checked from
// strongest to weakest and only the best one pays.
func TwentyOnePlusThree(first, second, dealerUp deck.Card) Result {
	r := Result{Kind: TwentyOnePlus3}
	three := [3]deck.Card{first, second, dealerUp}

	suited := three[0].Suit == three[1].Suit && three[1].Suit == three[2].Suit
	trips := three[0].Rank == three[1].Rank && three[1].Rank == three[2].Rank
	straight := isStraight(three)

	switch {
	case trips && suited:
		r.Won, r.HandType, r.Multiplier = true, "suited trips", 100
	case straight && suited:
		r.Won, r.HandType, r.Multiplier = true, "straight flush", 40
	case trips:
		r.Won, r.HandType, r.Multiplier = true, "three of a kind", 30
	case straight:
		r.Won, r.HandType, r.Multiplier = true, "straight", 10
	case suited:
		r.Won, r.HandType, r.Multiplier = true, "flush", 5
	}
	return r
}

// isStraight reports whether three cards form consecutive ranks. The ace
// plays low (A-2-3) or high (Q-K-A) but does not wrap (K-A-2 is nothing).
func isStraight(three [3]deck.Card) bool {
	ranks := []int{int(three[0].Rank), int(three[1].Rank), int(three[2].Rank)}
	sortThree(ranks)

	if ranks[1] == ranks[0]+1 && ranks[2] == ranks[1]+1 {
		return true
	}
	// Ace high: A sorts to 1, so Q-K-A appears as 1,12,13
	return ranks[0] == int(deck.Ace) && ranks[1] == int(deck.Queen) && ranks[2] == int(deck.King)
}

func sortThree(r []int) {
	if r[0] > r[1] {
		r[0], r[1] = r[1], r[0]
	}
	if r[1] > r[2] {
		r[1], r[2] = r[2], r[1]
	}
	if r[0] > r[1] {
		r[0], r[1] = r[1], r[0]
	}
}

func bestValue(cards []deck.Card) int {
	total, aces := 0, 0
	for _, c := range cards {
		if c.IsAce() {
			aces++
		} else {
			total += c.Value()
		}
	}
	for aces > 0 {
		if total+11+(aces-1) <= 21 {
			total += 11
		} else {
			total++
		}
		aces--
	}
	return total
}

// PayoutTable is one row of the published side bet odds.
type PayoutTable struct {
	Kind    Kind        `json:"kind"`
	Entries []PayoutRow `json:"entries"`
}

// PayoutRow maps a hand type to its multiplier.
type PayoutRow struct {
	HandType   string `json:"handType"`
	Multiplier int    `json:"multiplier"`
}

// PayoutTables returns the full published odds for every side bet, for
// lobby display.
func PayoutTables() []PayoutTable {
	return []PayoutTable{
		{
			Kind: PerfectPairsBet,
			Entries: []PayoutRow{
				{"perfect pair", 25},
				{"colored pair", 12},
				{"mixed pair", 6},
			},
		},
		{
			Kind: BustItBet,
			Entries: []PayoutRow{
				{"bust with 3 cards", 2},
				{"bust with 4 cards", 4},
				{"bust with 5 cards", 15},
				{"bust with 6 cards", 50},
				{"bust with 7 cards", 100},
				{"bust with 8+ cards", 250},
			},
		},
		{
			Kind: TwentyOnePlus3,
			Entries: []PayoutRow{
				{"suited trips", 100},
				{"straight flush", 40},
				{"three of a kind", 30},
				{"straight", 10},
				{"flush", 5},
			},
		},
	}
}
