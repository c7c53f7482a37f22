package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"mentor-backend/internal/config"
	"mentor-backend/internal/models"
	"mentor-backend/internal/session"
)

type stubSessions struct {
	mu    sync.Mutex
	keys  []string
	ended []string
	err   error
}

func (s *stubSessions) Exchange(_ context.Context, key, message string) session.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	if s.err != nil {
		return session.Result{Err: s.err}
	}
	return session.Result{Reply: "re: " + message}
}

func (s *stubSessions) End(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = append(s.ended, key)
	return nil
}

func (s *stubSessions) endedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ended)
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func roundTrip(t *testing.T, conn *websocket.Conn, frame string) models.MentorResponse {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
	var out models.MentorResponse
	require.NoError(t, conn.ReadJSON(&out))
	return out
}

func TestHub_ExchangesMessagesOnOneSession(t *testing.T) {
	sessions := &stubSessions{}
	hub := NewHub(sessions, config.ErrorModeEmbedded)
	conn := dial(t, hub)

	require.Equal(t, "re: hello", roundTrip(t, conn, `{"message":"hello"}`).Response)
	require.Equal(t, "re: again", roundTrip(t, conn, `{"message":"again"}`).Response)

	sessions.mu.Lock()
	require.Len(t, sessions.keys, 2)
	require.Equal(t, sessions.keys[0], sessions.keys[1])
	require.True(t, strings.HasPrefix(sessions.keys[0], "ws:"))
	sessions.mu.Unlock()
}

func TestHub_InvalidFrame(t *testing.T) {
	hub := NewHub(&stubSessions{}, config.ErrorModeEmbedded)
	conn := dial(t, hub)

	require.Equal(t, "An error occurred: invalid message", roundTrip(t, conn, `not json`).Response)
	require.Equal(t, "An error occurred: invalid message", roundTrip(t, conn, `{}`).Response)
}

func TestHub_ModelFailure(t *testing.T) {
	hub := NewHub(&stubSessions{err: errors.New("timeout")}, config.ErrorModeStatus)
	conn := dial(t, hub)

	out := roundTrip(t, conn, `{"message":"hello"}`)
	require.Equal(t, "An error occurred: timeout", out.Response)
	require.NotNil(t, out.Error)
	require.Equal(t, "AI_ERROR", out.Error.Code)
}

func TestHub_DisconnectEndsSession(t *testing.T) {
	sessions := &stubSessions{}
	hub := NewHub(sessions, config.ErrorModeEmbedded)
	conn := dial(t, hub)

	roundTrip(t, conn, `{"message":"hello"}`)
	require.Equal(t, 1, hub.Count())

	conn.Close()
	require.Eventually(t, func() bool {
		return hub.Count() == 0 && sessions.endedCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
