package deck

// Scripted is a CardSource that deals a fixed sequence of cards and then
// falls back to an underlying source once the script is exhausted. It
// replaces live-shoe draws for deterministic test scenarios; the room is
// handed a Scripted source by reference instead of having its shoe patched
// at runtime.
type Scripted struct {
	cards    []Card
	next     int
	fallback CardSource
}

// NewScripted creates a scripted source over the given cards, falling back
// to fallback when the script runs out.
func NewScripted(cards []Card, fallback CardSource) *Scripted {
	return &Scripted{cards: cards, fallback: fallback}
}

// Draw returns the next scripted card, or delegates to the fallback source
// once the script is exhausted.
func (s *Scripted) Draw() Card {
	if s.next < len(s.cards) {
		card := s.cards[s.next]
		s.next++
		return card
	}
	return s.fallback.Draw()
}

// Remaining returns how many scripted cards have not yet been dealt.
func (s *Scripted) Remaining() int {
	return len(s.cards) - s.next
}

// Dealt returns how many scripted cards have been dealt.
func (s *Scripted) Dealt() int {
	return s.next
}

// Peek returns up to n upcoming scripted cards without consuming them.
func (s *Scripted) Peek(n int) []Card {
	end := s.next + n
	if end > len(s.cards) {
		end = len(s.cards)
	}
	out := make([]Card, end-s.next)
	copy(out, s.cards[s.next:end])
	return out
}
