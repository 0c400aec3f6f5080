package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/blackjack/internal/game"
	"github.com/cardroom/blackjack/internal/sessionid"
	"github.com/cardroom/blackjack/internal/sidebet"
)

// Server bridges websocket clients and the table room. It implements
// game.Sink, so room events fan out to connected clients as wire frames.
type Server struct {
	log  *log.Logger
	room *game.Room
	addr string

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[string]*Connection
}

// New builds a server listening on addr. Attach the room with SetRoom
// before calling Run; the split lets the room take the server as its
// event sink at construction time.
func New(logger *log.Logger, addr string) *Server {
	return &Server{
		log:  logger.WithPrefix("server"),
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[string]*Connection),
	}
}

// SetRoom wires the room the server routes intents to.
func (s *Server) SetRoom(room *game.Room) {
	s.room = room
}

// Run serves until ctx is canceled, then shuts down draining connections.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", s.handleHealth)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"players": s.room.PlayerCount(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", "error", err)
		return
	}

	conn := newConnection(sessionid.Generate(), ws, s)
	s.register(conn)

	welcome, err := NewMessage(MsgWelcome, welcomePayload{
		PlayerID: conn.ID(),
		SideBets: sidebet.PayoutTables(),
	})
	if err == nil {
		conn.sendMessage(welcome)
	}

	go conn.writePump()
	go conn.readPump()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.conns[conn.ID()] = conn
	s.mu.Unlock()
	s.log.Info("client connected", "player", conn.ID())
}

// unregister drops the connection and tells the room the player is gone.
// Safe to call more than once.
func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, present := s.conns[conn.ID()]
	delete(s.conns, conn.ID())
	s.mu.Unlock()

	if present {
		s.log.Info("client disconnected", "player", conn.ID())
		s.room.Submit(game.Leave{PlayerID: conn.ID()})
	}
}

// ConnectionCount reports the number of live websocket clients.
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

// Broadcast implements game.Sink.
func (s *Server) Broadcast(event game.Event) {
	msg, err := NewMessage(MessageType(event.Name()), event)
	if err != nil {
		s.log.Error("encoding event", "event", event.Name(), "error", err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, conn := range s.conns {
		conn.sendMessage(msg)
	}
}

// SendTo implements game.Sink.
func (s *Server) SendTo(playerID string, event game.Event) {
	msg, err := NewMessage(MessageType(event.Name()), event)
	if err != nil {
		s.log.Error("encoding event", "event", event.Name(), "error", err)
		return
	}
	s.mu.RLock()
	conn, ok := s.conns[playerID]
	s.mu.RUnlock()
	if ok {
		conn.sendMessage(msg)
	}
}

// handleMessage translates one inbound frame into a room intent. Payload
// decode failures are answered on the connection; everything semantic is
// the room's call.
func (s *Server) handleMessage(conn *Connection, msg Message) {
	id := conn.ID()

	switch msg.Type {
	case MsgJoin:
		var p joinPayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.Join{PlayerID: id, Name: p.Name})

	case MsgStart:
		s.room.Submit(game.Start{PlayerID: id})

	case MsgPlaceBet:
		var p placeBetPayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.PlaceBet{
			PlayerID: id,
			Amount:   p.Amount,
			SideBets: sideBetStakes(p.SideBets),
		})

	case MsgSetReady:
		s.room.Submit(game.SetReady{PlayerID: id})

	case MsgCancelBet:
		s.room.Submit(game.CancelBet{PlayerID: id})

	case MsgSitOut:
		s.room.Submit(game.SitOut{PlayerID: id})

	case MsgCancelSitOut:
		s.room.Submit(game.CancelSitOut{PlayerID: id})

	case MsgPlaceInsurance:
		var p placeInsurancePayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.PlaceInsurance{PlayerID: id, Accept: p.Accept})

	case MsgAction:
		var p actionPayload
		if !decode(conn, msg, &p) {
			return
		}
		action := game.Action(p.Action)
		if !action.Valid() {
			conn.sendError("unknown action " + p.Action)
			return
		}
		s.room.Submit(game.PlayerAction{PlayerID: id, Action: action, HandIndex: p.HandIndex})

	case MsgPreSelectAction:
		var p actionPayload
		if !decode(conn, msg, &p) {
			return
		}
		action := game.Action(p.Action)
		if !action.Valid() {
			conn.sendError("unknown action " + p.Action)
			return
		}
		s.room.Submit(game.PreSelectAction{PlayerID: id, Action: action, HandIndex: p.HandIndex})

	case MsgUpdateProfile:
		var p updateProfilePayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.UpdateProfile{PlayerID: id, Name: p.Name, Color: p.Color})

	case MsgUpdateConfig:
		var p TableConfig
		if !decode(conn, msg, &p) {
			return
		}
		cfg, err := p.GameConfig()
		if err != nil {
			conn.sendError(err.Error())
			return
		}
		s.room.Submit(game.UpdateConfig{PlayerID: id, Config: cfg})

	case MsgAdvancePhase:
		s.room.Submit(game.AdvancePhase{PlayerID: id})

	case MsgEndGame:
		s.room.Submit(game.EndGame{PlayerID: id})

	case MsgKick:
		var p targetPayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.Kick{PlayerID: id, TargetID: p.PlayerID})

	case MsgTransferHost:
		var p targetPayload
		if !decode(conn, msg, &p) {
			return
		}
		s.room.Submit(game.TransferHost{PlayerID: id, TargetID: p.PlayerID})

	default:
		conn.sendError("unknown message type " + string(msg.Type))
	}
}

func decode(conn *Connection, msg Message, dst any) bool {
	if err := json.Unmarshal(msg.Data, dst); err != nil {
		conn.sendError("bad " + string(msg.Type) + " payload")
		return false
	}
	return true
}

// sideBetStakes keeps only recognized side bet kinds. Unknown names are
// dropped here so the room never sees them.
func sideBetStakes(raw map[string]int) map[sidebet.Kind]int {
	if len(raw) == 0 {
		return nil
	}
	stakes := make(map[sidebet.Kind]int, len(raw))
	for name, amount := range raw {
		kind := sidebet.Kind(name)
		if kind.Valid() {
			stakes[kind] = amount
		}
	}
	return stakes
}
