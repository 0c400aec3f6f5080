package server

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/sidebet"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv := New(log.New(io.Discard), "127.0.0.1:0")
	room := game.NewRoom(game.DefaultConfig(), srv, game.Options{
		Logger: log.New(io.Discard),
		Seed:   1,
	})
	srv.SetRoom(room)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go room.Run(ctx)
	return srv
}

// fakeConn builds a registered connection without a real websocket. The
// send channel stands in for the peer.
func fakeConn(t *testing.T, srv *Server, id string) *Connection {
	t.Helper()
	conn := &Connection{
		id:     id,
		server: srv,
		log:    srv.log,
		send:   make(chan Message, sendBufferSize),
		closed: make(chan struct{}),
	}
	srv.mu.Lock()
	srv.conns[id] = conn
	srv.mu.Unlock()
	return conn
}

func inbound(t *testing.T, msgType MessageType, payload any) Message {
	t.Helper()
	msg, err := NewMessage(msgType, payload)
	require.NoError(t, err)
	return msg
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, time.Second, 5*time.Millisecond)
}

func TestMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage(MsgPlaceBet, placeBetPayload{
		Amount:   50,
		SideBets: map[string]int{"perfectPairs": 5},
	})
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MsgPlaceBet, decoded.Type)

	var p placeBetPayload
	require.NoError(t, json.Unmarshal(decoded.Data, &p))
	assert.Equal(t, 50, p.Amount)
	assert.Equal(t, 5, p.SideBets["perfectPairs"])
}

func TestHandleJoinAndBet(t *testing.T) {
	srv := newTestServer(t)
	conn := fakeConn(t, srv, "p1")

	srv.handleMessage(conn, inbound(t, MsgJoin, joinPayload{Name: "Alice"}))
	waitFor(t, func() bool { return srv.room.PlayerCount() == 1 })

	var isHost bool
	srv.room.Inspect(func(r *game.Room) {
		p, ok := r.Player("p1")
		isHost = ok && p.IsHost
	})
	assert.True(t, isHost)

	srv.handleMessage(conn, inbound(t, MsgStart, nil))
	waitFor(t, func() bool {
		var phase game.Phase
		srv.room.Inspect(func(r *game.Room) { phase = r.Phase() })
		return phase == game.PhaseBetting
	})

	srv.handleMessage(conn, inbound(t, MsgPlaceBet, placeBetPayload{
		Amount:   100,
		SideBets: map[string]int{"perfectPairs": 10, "made-up": 5},
	}))
	waitFor(t, func() bool {
		var bet int
		srv.room.Inspect(func(r *game.Room) {
			if p, ok := r.Player("p1"); ok {
				bet = p.CurrentBet
			}
		})
		return bet == 100
	})

	var stakes map[sidebet.Kind]int
	srv.room.Inspect(func(r *game.Room) {
		p, _ := r.Player("p1")
		stakes = p.SideBets
	})
	assert.Equal(t, 10, stakes[sidebet.PerfectPairsBet])
	assert.NotContains(t, stakes, sidebet.Kind("made-up"), "unrecognized side bets are dropped at the edge")
}

func TestHandleMessageRejectsUnknownAction(t *testing.T) {
	srv := newTestServer(t)
	conn := fakeConn(t, srv, "p1")

	srv.handleMessage(conn, inbound(t, MsgAction, actionPayload{Action: "surrender"}))

	select {
	case msg := <-conn.send:
		assert.Equal(t, MessageType("error"), msg.Type)
	default:
		t.Fatal("expected an error frame")
	}
}

func TestHandleMessageRejectsMalformedPayload(t *testing.T) {
	srv := newTestServer(t)
	conn := fakeConn(t, srv, "p1")

	srv.handleMessage(conn, Message{Type: MsgPlaceBet, Data: json.RawMessage(`"nope"`)})

	select {
	case msg := <-conn.send:
		assert.Equal(t, MessageType("error"), msg.Type)
	default:
		t.Fatal("expected an error frame")
	}
}

func TestHandleMessageUnknownType(t *testing.T) {
	srv := newTestServer(t)
	conn := fakeConn(t, srv, "p1")

	srv.handleMessage(conn, Message{Type: "warp"})

	select {
	case msg := <-conn.send:
		assert.Equal(t, MessageType("error"), msg.Type)
	default:
		t.Fatal("expected an error frame")
	}
}

func TestBroadcastAndSendTo(t *testing.T) {
	srv := newTestServer(t)
	a := fakeConn(t, srv, "a")
	b := fakeConn(t, srv, "b")

	srv.Broadcast(game.PlayerJoined{PlayerID: "a", PlayerName: "Alice"})
	for _, conn := range []*Connection{a, b} {
		select {
		case msg := <-conn.send:
			assert.Equal(t, MessageType("player-joined"), msg.Type)
		default:
			t.Fatalf("connection %s missed the broadcast", conn.ID())
		}
	}

	srv.SendTo("a", game.BetFailed{Reason: "too small"})
	select {
	case msg := <-a.send:
		assert.Equal(t, MessageType("bet-failed"), msg.Type)
	default:
		t.Fatal("target missed the direct message")
	}
	select {
	case <-b.send:
		t.Fatal("direct message leaked to another connection")
	default:
	}
}

func TestUnregisterSubmitsLeave(t *testing.T) {
	srv := newTestServer(t)
	conn := fakeConn(t, srv, "p1")

	srv.handleMessage(conn, inbound(t, MsgJoin, joinPayload{Name: "Alice"}))
	waitFor(t, func() bool { return srv.room.PlayerCount() == 1 })

	srv.unregister(conn)
	assert.Equal(t, 0, srv.ConnectionCount())
	waitFor(t, func() bool { return srv.room.PlayerCount() == 0 })

	// Idempotent: a second unregister must not submit another leave.
	srv.unregister(conn)
}
