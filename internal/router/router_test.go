package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mentor-backend/internal/config"
	"mentor-backend/internal/handlers"
	"mentor-backend/internal/middleware"
	"mentor-backend/internal/models"
	"mentor-backend/internal/session"
	"mentor-backend/internal/websocket"
)

type echoSender struct {
	histories [][]models.Turn
	err       error
}

func (s *echoSender) Send(_ context.Context, history []models.Turn, message string) (string, error) {
	s.histories = append(s.histories, history)
	if s.err != nil {
		return "", s.err
	}
	return "re: " + message, nil
}

func newTestRouter(t *testing.T, sender *echoSender, scope session.Scope) http.Handler {
	t.Helper()
	m, err := session.NewManager(sender, session.NewMemoryStore(0), session.Options{Scope: scope, Persona: "persona"})
	require.NoError(t, err)
	return New(
		handlers.NewMentorHandler(m, config.ErrorModeEmbedded),
		websocket.NewHub(m, config.ErrorModeEmbedded),
		session.NewIdentities(""),
	)
}

func do(h http.Handler, method, path, body, sessionID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(middleware.SessionHeader, sessionID)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	rr := do(newTestRouter(t, &echoSender{}, session.ScopeCaller), http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_CallerSessionRoundTrip(t *testing.T) {
	sender := &echoSender{}
	h := newTestRouter(t, sender, session.ScopeCaller)

	first := do(h, http.MethodPost, "/chat", `{"message":"M1"}`, "")
	require.Equal(t, http.StatusOK, first.Code)
	sid := first.Header().Get(middleware.SessionHeader)
	require.NotEmpty(t, sid)
	require.NotEmpty(t, first.Header().Get("X-Request-Id"))

	second := do(h, http.MethodPost, "/chat", `{"message":"M2"}`, sid)
	require.Equal(t, sid, second.Header().Get(middleware.SessionHeader))
	require.Len(t, sender.histories[1], 3)

	other := do(h, http.MethodPost, "/mentor", `{"user_problem":"p","user_code":"c"}`, "")
	require.NotEqual(t, sid, other.Header().Get(middleware.SessionHeader))
	require.Len(t, sender.histories[2], 1)
}

func TestRouter_FailureKeepsServing(t *testing.T) {
	sender := &echoSender{err: errors.New("upstream unavailable")}
	h := newTestRouter(t, sender, session.ScopeGlobal)

	rr := do(h, http.MethodPost, "/chat", `{"message":"hi"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var out models.MentorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	require.Equal(t, "An error occurred: upstream unavailable", out.Response)

	sender.err = nil
	rr = do(h, http.MethodPost, "/chat", `{"message":"hi"}`, "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, sender.histories[1], 1, "failed exchange must not enter the global transcript")
}

func TestRouter_UnknownMethod(t *testing.T) {
	rr := do(newTestRouter(t, &echoSender{}, session.ScopeCaller), http.MethodGet, "/mentor", "", "")
	require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
