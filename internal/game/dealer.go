package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
)

// Dealer holds the house hand. The first card dealt is the up card, the
// second is the hole card, hidden until Reveal.
type Dealer struct {
	Cards        []deck.Card
	HoleRevealed bool
	HasBlackjack bool
	IsBust       bool
	IsComplete   bool
}

// NewDealer returns a dealer with an empty hand.
func NewDealer() *Dealer {
	return &Dealer{Cards: make([]deck.Card, 0, 8)}
}

// Reset clears the hand for a new round.
func (d *Dealer) Reset() {
	d.Cards = d.Cards[:0]
	d.HoleRevealed = false
	d.HasBlackjack = false
	d.IsBust = false
	d.IsComplete = false
}

// AddCard appends a card and recomputes blackjack and bust status.
func (d *Dealer) AddCard(card deck.Card) {
	d.Cards = append(d.Cards, card)

	value, _ := rules.HandValue(d.Cards)
	d.HasBlackjack = rules.IsBlackjack(d.Cards, false, false)
	d.IsBust = rules.IsBust(value)
	d.IsComplete = d.IsBust || value >= 17
}

// Reveal turns the hole card face up.
func (d *Dealer) Reveal() {
	d.HoleRevealed = true
}

// UpCard returns the dealer's first card, if dealt.
func (d *Dealer) UpCard() (deck.Card, bool) {
	if len(d.Cards) == 0 {
		return deck.Card{}, false
	}
	return d.Cards[0], true
}

// HoleCard returns the dealer's second card, if dealt.
func (d *Dealer) HoleCard() (deck.Card, bool) {
	if len(d.Cards) < 2 {
		return deck.Card{}, false
	}
	return d.Cards[1], true
}

// Value returns the full hand total and softness.
func (d *Dealer) Value() (int, bool) {
	return rules.HandValue(d.Cards)
}

// VisibleValue is the total a player can see: up card alone while the hole
// card stays hidden, the full hand after reveal.
func (d *Dealer) VisibleValue() int {
	if d.HoleRevealed || len(d.Cards) < 2 {
		value, _ := rules.HandValue(d.Cards)
		return value
	}
	value, _ := rules.HandValue(d.Cards[:1])
	return value
}

// ShouldHit implements the house drawing policy.
func (d *Dealer) ShouldHit() bool {
	value, _ := d.Value()
	if rules.IsBust(value) {
		return false
	}
	return rules.DealerShouldHit(value)
}

// ShowsAce reports whether the up card is an Ace, which gates insurance.
func (d *Dealer) ShowsAce() bool {
	up, ok := d.UpCard()
	return ok && up.IsAce()
}

// Snapshot renders the dealer for broadcast. With hideHole the hole card is
// replaced by a placeholder and the numeric value reflects the up card only.
func (d *Dealer) Snapshot(hideHole bool) DealerSnapshot {
	cards := append([]deck.Card(nil), d.Cards...)
	snap := DealerSnapshot{
		Cards:        cards,
		HoleRevealed: d.HoleRevealed && !hideHole,
	}

	if hideHole && len(cards) >= 2 {
		cards[1] = deck.Hidden
		value, _ := rules.HandValue(d.Cards[:1])
		snap.Value = value
		return snap
	}

	value, _ := rules.HandValue(d.Cards)
	snap.Value = value
	snap.HasBlackjack = d.HasBlackjack
	snap.IsBust = d.IsBust
	return snap
}
