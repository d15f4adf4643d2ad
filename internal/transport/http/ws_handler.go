package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"trivia-arena/internal/game"
)

// WSHandler upgrades HTTP requests to websockets and feeds client events
// into the tournament session.
type WSHandler struct {
	session  *game.Session
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewWSHandler(session *game.Session, hub *Hub) *WSHandler {
	return &WSHandler{
		session: session,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinPayload struct {
	Name   string `json:"name"`
	Grade  string `json:"grade"`
	UserID string `json:"userId"`
}

type answerPayload struct {
	QuestionIndex int    `json:"questionIndex"`
	Value         string `json:"value"`
}

// ServeWS runs one connection's lifetime: register, initial state sync,
// inbound event loop, disconnect cleanup.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	connID := h.hub.Register(conn)
	defer func() {
		h.session.Disconnect(connID)
		h.hub.Unregister(connID)
	}()

	h.session.Attach(connID)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read from %s failed: %v", connID, err)
			}
			return
		}

		switch inbound.Type {
		case "join":
			var payload joinPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.hub.PublishTo(connID, errorEvent("invalid join payload"))
				continue
			}
			// Join failures are already reported to the connection by the session.
			_ = h.session.Join(connID, payload.UserID, payload.Name, payload.Grade)
		case "ready":
			h.session.Ready(connID)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				h.hub.PublishTo(connID, errorEvent("invalid answer payload"))
				continue
			}
			// Stale, duplicate and late answers are silently ignored.
			_ = h.session.SubmitAnswer(connID, payload.QuestionIndex, payload.Value)
		case "ping":
			h.hub.PublishTo(connID, game.Event{Type: "pong", Payload: "pong"})
		default:
			h.hub.PublishTo(connID, errorEvent("unsupported message type"))
		}
	}
}

func errorEvent(message string) game.Event {
	return game.Event{Type: game.EventError, Payload: game.ErrorPayload{Message: message}}
}
