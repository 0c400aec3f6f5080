package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardroom/blackjack/internal/sidebet"
)

// MessageType identifies a websocket message.
type MessageType string

// Inbound message types, client to server.
const (
	MsgJoin            MessageType = "join"
	MsgStart           MessageType = "start"
	MsgPlaceBet        MessageType = "place-bet"
	MsgSetReady        MessageType = "set-ready"
	MsgCancelBet       MessageType = "cancel-bet"
	MsgSitOut          MessageType = "sit-out"
	MsgCancelSitOut    MessageType = "cancel-sit-out"
	MsgPlaceInsurance  MessageType = "place-insurance"
	MsgAction          MessageType = "action"
	MsgPreSelectAction MessageType = "pre-select-action"
	MsgUpdateProfile   MessageType = "update-profile"
	MsgUpdateConfig    MessageType = "update-config"
	MsgAdvancePhase    MessageType = "advance-phase"
	MsgEndGame         MessageType = "end-game"
	MsgKick            MessageType = "kick"
	MsgTransferHost    MessageType = "transfer-host"
)

// Outbound message types carry the room event name directly; MsgWelcome is
// the one transport-level extra, sent once on connect with the assigned
// player id.
const MsgWelcome MessageType = "welcome"

// Message is the wire frame: a type tag, a JSON payload, and a server
// timestamp.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage builds a frame with the payload marshaled in place.
func NewMessage(msgType MessageType, payload any) (Message, error) {
	msg := Message{Type: msgType, Timestamp: time.Now()}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return Message{}, fmt.Errorf("marshaling %s payload: %w", msgType, err)
		}
		msg.Data = data
	}
	return msg, nil
}

// Payload structs for inbound messages.

type joinPayload struct {
	Name string `json:"name"`
}

type placeBetPayload struct {
	Amount   int            `json:"amount"`
	SideBets map[string]int `json:"sideBets,omitempty"`
}

type placeInsurancePayload struct {
	Accept bool `json:"accept"`
}

type actionPayload struct {
	Action    string `json:"action"`
	HandIndex int    `json:"handIndex"`
}

type updateProfilePayload struct {
	Name  string `json:"name,omitempty"`
	Color string `json:"color,omitempty"`
}

type targetPayload struct {
	PlayerID string `json:"playerId"`
}

type welcomePayload struct {
	PlayerID string `json:"playerId"`
	// SideBets carries the published side bet odds so clients can render
	// payout tables before any game state arrives.
	SideBets []sidebet.PayoutTable `json:"sideBets"`
}
