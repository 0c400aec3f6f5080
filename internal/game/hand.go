package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
)

// Hand is one playable blackjack hand. A player starts a round with exactly
// one and may grow to MaxHands through splits.
type Hand struct {
	Cards     []deck.Card
	Bet       int
	Status    rules.HandStatus
	Doubled   bool
	FromSplit bool
	HasActed  bool
}

// NewHand returns an empty active hand carrying the committed bet.
func NewHand(bet int) *Hand {
	return &Hand{
		Cards:  make([]deck.Card, 0, 4),
		Bet:    bet,
		Status: rules.StatusActive,
	}
}

// Value returns the hand's best total and softness.
func (h *Hand) Value() (int, bool) {
	return rules.HandValue(h.Cards)
}

// AddCard appends a card and re-evaluates status: natural blackjack only at
// exactly two untouched cards, bust above 21, auto-stand at exactly 21.
func (h *Hand) AddCard(card deck.Card, splitAcesBlackjack bool) {
	h.Cards = append(h.Cards, card)

	value, _ := h.Value()
	switch {
	case len(h.Cards) == 2 && !h.HasActed &&
		rules.IsBlackjack(h.Cards, h.FromSplit, splitAcesBlackjack):
		h.Status = rules.StatusBlackjack
	case rules.IsBust(value):
		h.Status = rules.StatusBust
	case value == 21:
		h.Status = rules.StatusStand
	}
}

// IsActive reports whether the hand still awaits a play decision.
func (h *Hand) IsActive() bool {
	return h.Status == rules.StatusActive
}

// Stand marks the hand finished.
func (h *Hand) Stand() {
	h.HasActed = true
	if h.Status == rules.StatusActive {
		h.Status = rules.StatusStand
	}
}

// snapshot renders the hand for the state broadcast.
func (h *Hand) snapshot() HandSnapshot {
	value, soft := h.Value()
	return HandSnapshot{
		Cards:     append([]deck.Card(nil), h.Cards...),
		Bet:       h.Bet,
		Status:    h.Status,
		Value:     value,
		Soft:      soft,
		Doubled:   h.Doubled,
		FromSplit: h.FromSplit,
	}
}
