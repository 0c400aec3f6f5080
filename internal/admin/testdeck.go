package admin

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/cardroom/blackjack/internal/deck"
	"github.com/cardroom/blackjack/internal/game"
)

// Preset card scripts for a single-seat table, in deal order: player,
// dealer up card, player, dealer hole card, then draws.
var presets = map[string]string{
	"blackjack":        "AS 10D KH 9H",
	"bust":             "10S 7D 6H 10C KD",
	"split-aces":       "AS 8D AH 9C 10S 9D 10C",
	"split-tens":       "KS 8D QH 9C 5S 6D 10C",
	"dealer-bust":      "10S 6D 9H 10C 10H",
	"dealer-blackjack": "10S AS 9H KD",
	"perfect-pair":     "8S 7D 8S 10C KD",
}

// TestDeck installs scripted card sequences on a room so specific deals
// can be rehearsed. The room only accepts source changes while the phase
// is lobby or betting.
type TestDeck struct {
	log  *log.Logger
	room *game.Room

	active string
	cards  []deck.Card
}

// NewTestDeck wraps a room.
func NewTestDeck(room *game.Room, logger *log.Logger) *TestDeck {
	if logger == nil {
		logger = log.Default()
	}
	return &TestDeck{
		log:  logger.WithPrefix("testdeck"),
		room: room,
	}
}

// Presets lists the available scenario names.
func (t *TestDeck) Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadPreset installs a named scenario script.
func (t *TestDeck) LoadPreset(name string) error {
	script, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset %q, have %v", name, t.Presets())
	}
	if err := t.LoadScript(script); err != nil {
		return err
	}
	t.active = name
	return nil
}

// LoadScript parses a card script like "AS KH 10D" and installs it. Cards
// beyond the script fall back to the live shoe.
func (t *TestDeck) LoadScript(script string) error {
	cards, err := deck.ParseCards(script)
	if err != nil {
		return fmt.Errorf("parsing card script: %w", err)
	}

	installed := false
	ok := t.room.Inspect(func(r *game.Room) {
		if r.Phase() != game.PhaseLobby && r.Phase() != game.PhaseBetting {
			return
		}
		installed = true
	})
	if !ok {
		return fmt.Errorf("room is not running")
	}
	if !installed {
		return fmt.Errorf("scripted cards can only be set in lobby or betting")
	}

	t.room.Submit(game.InstallCardSource{Source: deck.NewScripted(cards, t.room.Shoe())})
	t.cards = cards
	t.active = "custom"
	t.log.Info("card script installed", "cards", len(cards))
	return nil
}

// Clear restores the live shoe.
func (t *TestDeck) Clear() {
	t.room.Submit(game.RemoveCardSource{})
	t.active = ""
	t.cards = nil
	t.log.Info("card script cleared")
}

// Active returns the installed scenario name, or empty when the live shoe
// is in use.
func (t *TestDeck) Active() string {
	return t.active
}

// Script returns the currently loaded card sequence.
func (t *TestDeck) Script() []deck.Card {
	return append([]deck.Card(nil), t.cards...)
}
