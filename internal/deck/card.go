package deck

import (
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Name returns the lowercase suit name used on the wire
func (s Suit) Name() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	default:
		return "unknown"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Ace:
		return "A"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}

// Value returns the blackjack point value of the card. Aces report 11;
// the rules package downgrades them to 1 per hand as needed.
func (c Card) Value() int {
	switch {
	case c.Rank == Ace:
		return 11
	case c.Rank >= Ten:
		return 10
	default:
		return int(c.Rank)
	}
}

// IsAce returns true if the card is an Ace
func (c Card) IsAce() bool {
	return c.Rank == Ace
}

// IsTenValue returns true if the card counts as ten (10, J, Q, K)
func (c Card) IsTenValue() bool {
	return c.Rank >= Ten
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// Hidden is the placeholder card broadcast in place of the dealer's hole
// card while it must stay secret.
var Hidden = Card{Rank: 0, Suit: -1}

// IsHidden reports whether the card is the redaction placeholder.
func (c Card) IsHidden() bool {
	return c.Rank == 0
}

// ParseCard parses a compact card string such as "AS", "10D" or "kh".
func ParseCard(s string) (Card, error) {
	str := strings.ToUpper(strings.TrimSpace(s))

	var rankStr, suitStr string
	switch {
	case len(str) == 2:
		rankStr, suitStr = str[:1], str[1:]
	case len(str) == 3 && strings.HasPrefix(str, "10"):
		rankStr, suitStr = "10", str[2:]
	default:
		return Card{}, fmt.Errorf("invalid card %q: use format like AS, KH, 10D", s)
	}

	var rank Rank
	switch rankStr {
	case "A":
		rank = Ace
	case "T":
		rank = Ten
	case "J":
		rank = Jack
	case "Q":
		rank = Queen
	case "K":
		rank = King
	case "2", "3", "4", "5", "6", "7", "8", "9", "10":
		rank = Rank(rankStr[0] - '0')
		if rankStr == "10" {
			rank = Ten
		}
	default:
		return Card{}, fmt.Errorf("invalid rank %q in card %q", rankStr, s)
	}

	var suit Suit
	switch suitStr {
	case "S":
		suit = Spades
	case "H":
		suit = Hearts
	case "D":
		suit = Diamonds
	case "C":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid suit %q in card %q", suitStr, s)
	}

	return Card{Rank: rank, Suit: suit}, nil
}

// ParseCards parses a whitespace-separated card script (e.g., "AS KH 10D").
func ParseCards(script string) ([]Card, error) {
	fields := strings.Fields(script)
	if len(fields) == 0 {
		return nil, fmt.Errorf("no cards specified")
	}

	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		card, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}
