package game

import (
	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/rules"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// Participation is a player's standing in the current round. It replaces a
// scatter of ready/eliminated booleans with one legal-state enum.
type Participation int

const (
	// Undecided players are seated but have not locked in a bet.
	Undecided Participation = iota
	// Ready players have a committed bet and are waiting for the deal.
	Ready
	// SittingOut players skip the current round but keep their seat.
	SittingOut
	// Eliminated players lack the bankroll to meet the table minimum.
	Eliminated
)

func (p Participation) String() string {
	switch p {
	case Undecided:
		return "undecided"
	case Ready:
		return "ready"
	case SittingOut:
		return "sittingOut"
	case Eliminated:
		return "eliminated"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the participation as its wire name.
func (p Participation) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// Stats accumulates a player's results across the session.
type Stats struct {
	HandsPlayed    int `json:"handsPlayed"`
	Wins           int `json:"wins"`
	Losses         int `json:"losses"`
	Pushes         int `json:"pushes"`
	Blackjacks     int `json:"blackjacks"`
	Splits         int `json:"splits"`
	Doubles        int `json:"doubles"`
	Busts          int `json:"busts"`
	InsuranceTaken int `json:"insuranceTaken"`
	InsuranceWon   int `json:"insuranceWon"`
	TotalWagered   int `json:"totalWagered"`
	NetProfit      int `json:"netProfit"`
	BiggestWin     int `json:"biggestWin"`
	BiggestLoss    int `json:"biggestLoss"`
}

// RecordHand folds one resolved hand into the running totals.
func (s *Stats) RecordHand(outcome rules.Outcome, wagered, payout int) {
	s.HandsPlayed++
	s.TotalWagered += wagered

	net := payout - wagered
	s.NetProfit += net
	if net > s.BiggestWin {
		s.BiggestWin = net
	}
	if net < s.BiggestLoss {
		s.BiggestLoss = net
	}

	switch outcome {
	case rules.Win:
		s.Wins++
	case rules.Loss:
		s.Losses++
	case rules.Push:
		s.Pushes++
	case rules.Blackjack:
		s.Wins++
		s.Blackjacks++
	}
}

// Player is one seated participant. Bets are stored without touching the
// bankroll; the single deduction happens when betting closes.
type Player struct {
	ID            string
	Name          string
	Color         string
	Seat          int
	IsHost        bool
	Bankroll      int
	CurrentBet    int
	SideBets      map[sidebet.Kind]int
	Participation Participation
	Hands         []*Hand
	Stats         Stats

	// firstTwo holds the initially dealt pair for side bet evaluation,
	// untouched by later splits.
	firstTwo []deck.Card
}

// NewPlayer seats a player with the table's starting bankroll.
func NewPlayer(id, name string, seat, bankroll int) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		Seat:     seat,
		Bankroll: bankroll,
		SideBets: make(map[sidebet.Kind]int),
	}
}

// StageBets validates the whole wager set, main bet plus side bets, and
// stores it only when every piece passes; a rejected intent leaves the
// staged bets exactly as they were. The bankroll is not touched until
// betting closes, so edits and cancellations stay free.
func (p *Player) StageBets(amount int, side map[sidebet.Kind]int, cfg Config) error {
	if p.Participation == Ready {
		return ruleErrorf("bet is locked in")
	}
	if err := rules.ValidateBet(amount, cfg.MinBet, cfg.MaxBet, p.Bankroll); err != nil {
		return &RuleError{Reason: err.Error()}
	}
	total := amount
	for kind, stake := range side {
		if !kind.Valid() {
			return ruleErrorf("unknown side bet %q", kind)
		}
		if stake < 0 {
			return ruleErrorf("side bet amount must be a positive number")
		}
		total += stake
	}
	// side bets staged earlier and not restated keep their stakes
	for kind, stake := range p.SideBets {
		if _, ok := side[kind]; !ok {
			total += stake
		}
	}
	if total > p.Bankroll {
		return ruleErrorf("insufficient funds")
	}

	p.CurrentBet = amount
	for kind, stake := range side {
		if stake == 0 {
			delete(p.SideBets, kind)
			continue
		}
		p.SideBets[kind] = stake
	}
	return nil
}

// CancelBet clears all staged wagers. The bankroll is untouched.
func (p *Player) CancelBet() error {
	if p.Participation == Ready {
		return ruleErrorf("bet is locked in")
	}
	p.CurrentBet = 0
	p.SideBets = make(map[sidebet.Kind]int)
	return nil
}

// TotalWagered is the staged main bet plus all side bets.
func (p *Player) TotalWagered() int {
	total := p.CurrentBet
	for _, amount := range p.SideBets {
		total += amount
	}
	return total
}

// InitializeHand resets the player to exactly one empty hand carrying the
// committed bet.
func (p *Player) InitializeHand() {
	p.Hands = []*Hand{NewHand(p.CurrentBet)}
	p.firstTwo = nil
}

// AddCard deals a card to the indexed hand.
func (p *Player) AddCard(card deck.Card, handIndex int, splitAcesBlackjack bool) error {
	if handIndex < 0 || handIndex >= len(p.Hands) {
		return ruleErrorf("no hand at index %d", handIndex)
	}
	p.Hands[handIndex].AddCard(card, splitAcesBlackjack)
	if handIndex == 0 && !p.Hands[0].FromSplit && len(p.Hands[0].Cards) <= 2 {
		p.firstTwo = append([]deck.Card(nil), p.Hands[0].Cards...)
	}
	return nil
}

// FirstTwo returns the initially dealt pair used by the side bets.
func (p *Player) FirstTwo() []deck.Card {
	return p.firstTwo
}

// CanHit reports whether the indexed hand may draw.
func (p *Player) CanHit(handIndex int) bool {
	if handIndex < 0 || handIndex >= len(p.Hands) {
		return false
	}
	h := p.Hands[handIndex]
	value, _ := h.Value()
	return rules.CanHit(value, h.Status)
}

// CanDouble reports whether the indexed hand may double down.
func (p *Player) CanDouble(handIndex int) bool {
	if handIndex < 0 || handIndex >= len(p.Hands) {
		return false
	}
	h := p.Hands[handIndex]
	return h.IsActive() && rules.CanDouble(h.Cards, h.HasActed) && p.Bankroll >= h.Bet
}

// CanSplit reports whether the indexed hand may split.
func (p *Player) CanSplit(handIndex int) bool {
	if handIndex < 0 || handIndex >= len(p.Hands) {
		return false
	}
	h := p.Hands[handIndex]
	return h.IsActive() && len(p.Hands) < MaxHands &&
		rules.CanSplit(h.Cards) && p.Bankroll >= h.Bet
}

// AvailableActions lists the legal actions on the indexed hand.
func (p *Player) AvailableActions(handIndex int) []Action {
	if handIndex < 0 || handIndex >= len(p.Hands) || !p.Hands[handIndex].IsActive() {
		return nil
	}

	actions := []Action{ActionStand}
	if p.CanHit(handIndex) {
		actions = append(actions, ActionHit)
	}
	if p.CanDouble(handIndex) {
		actions = append(actions, ActionDouble)
	}
	if p.CanSplit(handIndex) {
		actions = append(actions, ActionSplit)
	}
	return actions
}

// Hit marks the hand acted; the room draws and delivers the card.
func (p *Player) Hit(handIndex int) error {
	if !p.CanHit(handIndex) {
		return ruleErrorf("cannot hit this hand")
	}
	p.Hands[handIndex].HasActed = true
	return nil
}

// Stand finishes the indexed hand.
func (p *Player) Stand(handIndex int) error {
	if handIndex < 0 || handIndex >= len(p.Hands) || !p.Hands[handIndex].IsActive() {
		return ruleErrorf("cannot stand this hand")
	}
	p.Hands[handIndex].Stand()
	return nil
}

// Double doubles the hand's bet, deducting the extra stake from the
// bankroll immediately, and marks the hand doubled and acted. The room
// deals the single follow-up card and stands the hand.
func (p *Player) Double(handIndex int) error {
	if !p.CanDouble(handIndex) {
		return ruleErrorf("cannot double this hand")
	}
	h := p.Hands[handIndex]
	p.Bankroll -= h.Bet
	h.Bet *= 2
	h.Doubled = true
	h.HasActed = true
	p.Stats.Doubles++
	return nil
}

// Split deducts a matching stake and moves the hand's second card into a
// new hand inserted immediately after it. Both hands are marked as split
// and left one card short; the room deals each its second card.
func (p *Player) Split(handIndex int) error {
	if !p.CanSplit(handIndex) {
		return ruleErrorf("cannot split this hand")
	}

	src := p.Hands[handIndex]
	p.Bankroll -= src.Bet

	split := NewHand(src.Bet)
	split.Cards = append(split.Cards, src.Cards[1])
	split.FromSplit = true

	src.Cards = src.Cards[:1]
	src.FromSplit = true

	p.Hands = append(p.Hands, nil)
	copy(p.Hands[handIndex+2:], p.Hands[handIndex+1:])
	p.Hands[handIndex+1] = split

	p.Stats.Splits++
	return nil
}

// AllHandsComplete reports whether every hand has reached a final status.
func (p *Player) AllHandsComplete() bool {
	for _, h := range p.Hands {
		if h.IsActive() {
			return false
		}
	}
	return true
}

// StandAll finishes every active hand, used when a player disconnects or
// times out mid-turn.
func (p *Player) StandAll() {
	for _, h := range p.Hands {
		if h.IsActive() {
			h.Stand()
		}
	}
}

// ResetForRound clears round-scoped state ahead of a new betting phase.
func (p *Player) ResetForRound(minBet int) {
	p.CurrentBet = 0
	p.SideBets = make(map[sidebet.Kind]int)
	p.Hands = nil
	p.firstTwo = nil

	switch {
	case p.Bankroll < minBet:
		p.Participation = Eliminated
	case p.Participation == SittingOut:
		// stays seated out until they opt back in
	default:
		p.Participation = Undecided
	}
}

// snapshot renders the player for the state broadcast.
func (p *Player) snapshot(insurance int) PlayerSnapshot {
	hands := make([]HandSnapshot, len(p.Hands))
	for i, h := range p.Hands {
		hands[i] = h.snapshot()
	}

	sideBets := make(map[sidebet.Kind]int, len(p.SideBets))
	for k, v := range p.SideBets {
		sideBets[k] = v
	}

	return PlayerSnapshot{
		ID:            p.ID,
		Name:          p.Name,
		Color:         p.Color,
		Seat:          p.Seat,
		IsHost:        p.IsHost,
		Bankroll:      p.Bankroll,
		CurrentBet:    p.CurrentBet,
		SideBets:      sideBets,
		Participation: p.Participation,
		Hands:         hands,
		Insurance:     insurance,
		Stats:         p.Stats,
	}
}
