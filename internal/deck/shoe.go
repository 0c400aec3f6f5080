package deck

import rand "math/rand/v2"

// DefaultDeckCount is the number of 52-card decks in a fresh shoe.
const DefaultDeckCount = 6

// CardSource supplies cards one at a time. The Shoe is the production
// implementation; tests and the admin test-deck use Scripted.
type CardSource interface {
	Draw() Card
}

// Shoe is a multi-deck pool of cards. Drawing pops from the tail; when the
// shoe runs dry it regenerates all decks and reshuffles in full.
type Shoe struct {
	deckCount int
	cards     []Card
	dealt     int
	rng       *rand.Rand
}

// NewShoe creates a shuffled shoe of deckCount standard decks.
func NewShoe(deckCount int, rng *rand.Rand) *Shoe {
	if deckCount <= 0 {
		deckCount = DefaultDeckCount
	}
	s := &Shoe{
		deckCount: deckCount,
		rng:       rng,
	}
	s.regenerate()
	return s
}

func (s *Shoe) regenerate() {
	s.cards = make([]Card, 0, s.deckCount*52)
	for d := 0; d < s.deckCount; d++ {
		for suit := Spades; suit <= Clubs; suit++ {
			for rank := Ace; rank <= King; rank++ {
				s.cards = append(s.cards, NewCard(rank, suit))
			}
		}
	}
	s.dealt = 0
	s.shuffle()
}

// shuffle randomizes the card order in-place (Fisher-Yates).
func (s *Shoe) shuffle() {
	for i := len(s.cards) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		s.cards[i], s.cards[j] = s.cards[j], s.cards[i]
	}
}

// Draw removes and returns the next card, regenerating and reshuffling the
// whole shoe first if it is empty.
func (s *Shoe) Draw() Card {
	if len(s.cards) == 0 {
		s.regenerate()
	}

	card := s.cards[len(s.cards)-1]
	s.cards = s.cards[:len(s.cards)-1]
	s.dealt++
	return card
}

// Penetration returns the fraction of the shoe consumed since the last
// shuffle, in the range [0, 1].
func (s *Shoe) Penetration() float64 {
	total := s.deckCount * 52
	return float64(total-len(s.cards)) / float64(total)
}

// Remaining returns the number of cards left before the next reshuffle.
func (s *Shoe) Remaining() int {
	return len(s.cards)
}

// DealtSinceShuffle returns the number of cards drawn since the last shuffle.
func (s *Shoe) DealtSinceShuffle() int {
	return s.dealt
}

// DeckCount returns the number of decks the shoe regenerates with.
func (s *Shoe) DeckCount() int {
	return s.deckCount
}

// TotalCards returns the full shoe size (deckCount * 52).
func (s *Shoe) TotalCards() int {
	return s.deckCount * 52
}
