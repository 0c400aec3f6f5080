package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// writeWait is the deadline for a single outbound write.
	writeWait = 10 * time.Second

	// pongWait is how long to wait for a pong before dropping the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 8192

	sendBufferSize = 256
)

// Connection wraps one websocket client. The connection id doubles as the
// player id: socket identity is player identity.
type Connection struct {
	id     string
	ws     *websocket.Conn
	server *Server
	log    *log.Logger

	send      chan Message
	closeOnce sync.Once
	closed    chan struct{}
}

func newConnection(id string, ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		id:     id,
		ws:     ws,
		server: server,
		log:    server.log.With("conn", id),
		send:   make(chan Message, sendBufferSize),
		closed: make(chan struct{}),
	}
}

// ID returns the connection's player id.
func (c *Connection) ID() string {
	return c.id
}

// readPump pulls frames off the socket and routes them until the peer
// goes away, then unregisters.
func (c *Connection) readPump() {
	defer func() {
		c.server.unregister(c)
		c.close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("unexpected close", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.log.Warn("malformed message", "error", err)
			c.sendError("malformed message")
			continue
		}
		c.server.handleMessage(c, msg)
	}
}

// writePump drains the send channel onto the socket and keeps the peer
// alive with pings.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				c.log.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.closed:
			return
		}
	}
}

// sendMessage queues a frame for the client. A client that cannot keep up
// with the buffer is dropped rather than allowed to stall the room.
func (c *Connection) sendMessage(msg Message) {
	select {
	case c.send <- msg:
	case <-c.closed:
	default:
		c.log.Warn("send buffer full, dropping connection")
		c.server.unregister(c)
		c.close()
	}
}

func (c *Connection) sendError(reason string) {
	msg, err := NewMessage("error", map[string]string{"reason": reason})
	if err != nil {
		return
	}
	c.sendMessage(msg)
}

// close shuts the socket down exactly once.
func (c *Connection) close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.ws.Close()
	})
}
