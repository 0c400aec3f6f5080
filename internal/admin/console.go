// Package admin exposes a programmatic operator surface over a running
// table: lifecycle commands, read-only introspection, and scripted deck
// control for rehearsing specific deals.
package admin

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/cardroom/blackjack/internal/game"
)

// Console issues operator commands to a room. Lifecycle commands run with
// the current host's authority.
type Console struct {
	log  *log.Logger
	room *game.Room
	deck *TestDeck
}

// NewConsole wraps a room.
func NewConsole(room *game.Room, logger *log.Logger) *Console {
	if logger == nil {
		logger = log.Default()
	}
	return &Console{
		log:  logger.WithPrefix("admin"),
		room: room,
		deck: NewTestDeck(room, logger),
	}
}

// TestDeck returns the scripted deck controller.
func (c *Console) TestDeck() *TestDeck {
	return c.deck
}

// hostID resolves the current host's player id.
func (c *Console) hostID() (string, error) {
	var host string
	ok := c.room.Inspect(func(r *game.Room) {
		for _, id := range r.PlayerIDs() {
			if p, ok := r.Player(id); ok && p.IsHost {
				host = p.ID
				return
			}
		}
	})
	if !ok {
		return "", fmt.Errorf("room is not running")
	}
	if host == "" {
		return "", fmt.Errorf("no host seated")
	}
	return host, nil
}

// StartGame begins play from the lobby.
func (c *Console) StartGame() error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	c.log.Info("starting game")
	c.room.Submit(game.Start{PlayerID: host})
	return nil
}

// EndGame returns the table to the lobby.
func (c *Console) EndGame() error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	c.log.Info("ending game")
	c.room.Submit(game.EndGame{PlayerID: host})
	return nil
}

// Kick removes a player from the table.
func (c *Console) Kick(targetID string) error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	if targetID == host {
		return fmt.Errorf("cannot kick the host")
	}
	c.log.Info("kicking player", "target", targetID)
	c.room.Submit(game.Kick{PlayerID: host, TargetID: targetID})
	return nil
}

// TransferHost moves host authority to another player.
func (c *Console) TransferHost(targetID string) error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	c.log.Info("transferring host", "target", targetID)
	c.room.Submit(game.TransferHost{PlayerID: host, TargetID: targetID})
	return nil
}

// AdvancePhase fires the pending phase deadline.
func (c *Console) AdvancePhase() error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	c.room.Submit(game.AdvancePhase{PlayerID: host})
	return nil
}

// SetAutoAdvance toggles timer-driven progression.
func (c *Console) SetAutoAdvance(enabled bool) error {
	host, err := c.hostID()
	if err != nil {
		return err
	}
	c.room.Submit(game.SetAutoAdvance{PlayerID: host, Enabled: enabled})
	return nil
}

// PlayerInfo is one seated player's introspection line.
type PlayerInfo struct {
	ID            string
	Name          string
	Seat          int
	IsHost        bool
	Bankroll      int
	Participation string
	Stats         game.Stats
}

// Status is a point-in-time view of the table.
type Status struct {
	Phase       game.Phase
	RoundNumber int
	Players     []PlayerInfo
	Penetration float64
	Scripted    bool
}

// Status reads the room without racing its loop.
func (c *Console) Status() (Status, error) {
	var st Status
	ok := c.room.Inspect(func(r *game.Room) {
		st.Phase = r.Phase()
		st.RoundNumber = r.RoundNumber()
		st.Penetration = r.Penetration()
		st.Scripted = r.ScriptedSource()
		for _, id := range r.PlayerIDs() {
			p, ok := r.Player(id)
			if !ok {
				continue
			}
			st.Players = append(st.Players, PlayerInfo{
				ID:            p.ID,
				Name:          p.Name,
				Seat:          p.Seat,
				IsHost:        p.IsHost,
				Bankroll:      p.Bankroll,
				Participation: p.Participation.String(),
				Stats:         p.Stats,
			})
		}
	})
	if !ok {
		return Status{}, fmt.Errorf("room is not running")
	}
	return st, nil
}
