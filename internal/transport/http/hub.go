package http

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"sync"

	"github.com/gorilla/websocket"
	"trivia-arena/internal/game"
)

// Hub tracks every live connection in the tournament room and implements
// game.Channel over them. One writer goroutine per connection keeps gorilla's
// single-writer rule.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*client
}

type client struct {
	conn *websocket.Conn
	send chan game.Event
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*client)}
}

// Register adds a connection and starts its writer. Returns the connection
// identity the session keys players by.
func (h *Hub) Register(conn *websocket.Conn) string {
	id := newConnID()
	c := &client{conn: conn, send: make(chan game.Event, 32)}

	h.mu.Lock()
	h.conns[id] = c
	h.mu.Unlock()

	go func() {
		for event := range c.send {
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("ws write to %s failed: %v", id, err)
				return
			}
		}
		_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
	}()

	return id
}

// Unregister drops the connection and stops its writer.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[connID]; ok {
		delete(h.conns, connID)
		close(c.send)
	}
}

// Publish fans the event out to every connection. Slow consumers with a full
// buffer drop the event rather than stalling the room.
func (h *Hub) Publish(event game.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.conns {
		select {
		case c.send <- event:
		default:
			log.Printf("dropping %s event for slow connection %s", event.Type, id)
		}
	}
}

// PublishTo delivers the event to a single connection.
func (h *Hub) PublishTo(connID string, event game.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.conns[connID]; ok {
		select {
		case c.send <- event:
		default:
			log.Printf("dropping %s event for slow connection %s", event.Type, connID)
		}
	}
}

// Size reports the number of live connections.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func newConnID() string {
	bytes := make([]byte, 8)
	_, _ = rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
