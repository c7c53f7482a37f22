package terminal

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mentor-backend/internal/session"
)

type stubSessions struct {
	messages []string
	keys     []string
	fail     map[string]error
}

func (s *stubSessions) Exchange(_ context.Context, key, message string) session.Result {
	s.messages = append(s.messages, message)
	s.keys = append(s.keys, key)
	if err := s.fail[message]; err != nil {
		return session.Result{Err: err}
	}
	return session.Result{Reply: "re: " + message}
}

func TestRun_QuitWordsEndLoopWithoutSending(t *testing.T) {
	for _, word := range []string{"quit", "exit", "QUIT", "Exit", "  qUiT  "} {
		t.Run(word, func(t *testing.T) {
			sessions := &stubSessions{}
			var out bytes.Buffer

			err := Run(context.Background(), sessions, strings.NewReader("hello\n"+word+"\nnever sent\n"), &out)
			require.NoError(t, err)
			require.Equal(t, []string{"hello"}, sessions.messages)
			require.Contains(t, out.String(), "Mentor AI: re: hello\n")
			require.True(t, strings.HasSuffix(out.String(), "Goodbye!\n"))
		})
	}
}

func TestRun_UsesOneSessionKey(t *testing.T) {
	sessions := &stubSessions{}
	err := Run(context.Background(), sessions, strings.NewReader("a\nb\nquit\n"), &bytes.Buffer{})
	require.NoError(t, err)
	require.Equal(t, []string{SessionKey, SessionKey}, sessions.keys)
}

func TestRun_ErrorsDoNotEndLoop(t *testing.T) {
	sessions := &stubSessions{fail: map[string]error{"bad": errors.New("network down")}}
	var out bytes.Buffer

	err := Run(context.Background(), sessions, strings.NewReader("bad\ngood\nexit\n"), &out)
	require.NoError(t, err)
	require.Contains(t, out.String(), "An error occurred: network down\n")
	require.Contains(t, out.String(), "Mentor AI: re: good\n")
}

func TestRun_EOFEndsLoop(t *testing.T) {
	sessions := &stubSessions{}
	var out bytes.Buffer

	require.NoError(t, Run(context.Background(), sessions, strings.NewReader("only line"), &out))
	require.Equal(t, []string{"only line"}, sessions.messages)
	require.True(t, strings.HasPrefix(out.String(), welcome+"\n"))
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, &stubSessions{}, strings.NewReader("hello\n"), &bytes.Buffer{})
	require.ErrorIs(t, err, context.Canceled)
}
