package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"mentor-backend/internal/handlers"
	"mentor-backend/internal/models"
	"mentor-backend/internal/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

const maxMessageBytes = 64 * 1024

type sessionManager interface {
	Exchange(ctx context.Context, callerKey, message string) session.Result
	End(ctx context.Context, callerKey string) error
}

// Hub serves chat over websockets. Each connection is its own caller session.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
	sessions    sessionManager
	errorMode   string
}

func NewHub(sessions sessionManager, errorMode string) *Hub {
	return &Hub{
		connections: make(map[string]*websocket.Conn),
		sessions:    sessions,
		errorMode:   errorMode,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageBytes)

	sessionID := "ws:" + uuid.NewString()
	requestID := chimiddleware.GetReqID(r.Context())
	h.registerConnection(sessionID, conn)

	go func() {
		defer h.unregisterConnection(sessionID, conn)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteJSON(h.reply(sessionID, requestID, data)); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) reply(sessionID, requestID string, data []byte) models.MentorResponse {
	var req models.ChatRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Message == nil {
		return models.MentorResponse{Response: handlers.ErrorPrefix + "invalid message"}
	}

	res := h.sessions.Exchange(context.Background(), sessionID, *req.Message)
	if !res.OK() {
		log.Error().Err(res.Err).Str("session", sessionID).Msg("Model exchange failed")
	}
	_, body := handlers.Envelope(res, h.errorMode, requestID)
	return body
}

func (h *Hub) registerConnection(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[sessionID] = conn
	log.Debug().Str("session", sessionID).Int("open", len(h.connections)).Msg("WebSocket connected")
}

func (h *Hub) unregisterConnection(sessionID string, conn *websocket.Conn) {
	h.mu.Lock()
	conn.Close()
	delete(h.connections, sessionID)
	h.mu.Unlock()

	if err := h.sessions.End(context.Background(), sessionID); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("Failed to end websocket session")
	}
	log.Debug().Str("session", sessionID).Msg("WebSocket disconnected")
}

// Count reports the number of open connections.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close sends a going-away frame to every open connection. Read loops then
// exit and clean up their sessions.
func (h *Hub) Close() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	deadline := time.Now().Add(time.Second)
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
	for _, conn := range h.connections {
		conn.WriteControl(websocket.CloseMessage, msg, deadline)
		conn.Close()
	}
}
