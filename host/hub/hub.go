// Package hub fans knob events out to websocket clients. Each client gets a
// buffered send queue and its own write pump, so one slow consumer never
// blocks the event stream; a client whose queue fills is dropped.
package hub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultSendBuf = 32
	writeTimeout   = 10 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks connected websocket clients and broadcasts serialized events.
type Hub struct {
	logger  *slog.Logger
	sendBuf int

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New constructs a hub ready to accept clients.
func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		sendBuf: defaultSendBuf,
		clients: make(map[*client]struct{}),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  256,
	WriteBufferSize: 1024,
	// The endpoint carries read-only event notifications on a local
	// interface; cross-origin pages may subscribe.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler returns the websocket upgrade endpoint.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", "err", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, h.sendBuf)}
		h.mu.Lock()
		h.clients[c] = struct{}{}
		n := len(h.clients)
		h.mu.Unlock()
		h.logger.Info("ws client connected", "remote_addr", conn.RemoteAddr().String(), "clients", n)

		go h.writePump(c)
		go h.readPump(c)
	})
}

// Broadcast serializes v as JSON and queues it to every client. Clients
// that cannot keep up are disconnected rather than waited on.
func (h *Hub) Broadcast(v any) {
	msg, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("ws marshal failed", "err", err)
		return
	}

	var slow []*client
	h.mu.Lock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.drop(c, "send queue full")
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c, "hub closing")
	}
}

// drop removes a client and closes its connection and queue exactly once.
func (h *Hub) drop(c *client, reason string) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	if !present {
		return
	}

	close(c.send)
	if c.conn != nil {
		c.conn.Close()
		h.logger.Info("ws client dropped", "remote_addr", c.conn.RemoteAddr().String(), "reason", reason)
	}
}

// writePump drains the client queue onto the wire until the queue closes.
func (h *Hub) writePump(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.drop(c, "write failed")
			// Keep draining so Broadcast never sees a full queue on a
			// half-dead client.
			for range c.send {
			}
			return
		}
	}
}

// readPump discards inbound frames; the endpoint is one-way. A read error
// means the peer went away.
func (h *Hub) readPump(c *client) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.drop(c, "peer closed")
			return
		}
	}
}
