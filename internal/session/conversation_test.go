package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mentor-backend/internal/models"
)

func TestConversation_SeededWithPersona(t *testing.T) {
	conv := NewConversation(testPersona)
	require.Equal(t, []models.Turn{persona()}, conv.Turns)
}

func TestConversation_HistoryIsACopy(t *testing.T) {
	conv := NewConversation(testPersona)
	h := conv.History()
	h[0].Content = "changed"
	require.Equal(t, testPersona, conv.Turns[0].Content)
}

func TestConversation_Prune(t *testing.T) {
	build := func(pairs int) *Conversation {
		conv := NewConversation(testPersona)
		for i := 0; i < pairs; i++ {
			conv.Append(string(rune('a'+i)), string(rune('A'+i)))
		}
		return conv
	}

	tests := []struct {
		name     string
		pairs    int
		maxTurns int
		want     []models.Turn
	}{
		{"unbounded", 2, 0, []models.Turn{persona(), user("a"), model("A"), user("b"), model("B")}},
		{"within bound", 2, 4, []models.Turn{persona(), user("a"), model("A"), user("b"), model("B")}},
		{"drops oldest pair", 3, 4, []models.Turn{persona(), user("b"), model("B"), user("c"), model("C")}},
		{"odd bound drops whole pairs", 3, 3, []models.Turn{persona(), user("c"), model("C")}},
		{"bound smaller than a pair", 2, 1, []models.Turn{persona()}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			conv := build(tc.pairs)
			conv.Prune(tc.maxTurns)
			require.Equal(t, tc.want, conv.Turns)
		})
	}
}

func TestParseScope(t *testing.T) {
	for _, s := range []string{"request", "Caller", " global "} {
		_, err := ParseScope(s)
		require.NoError(t, err)
	}
	_, err := ParseScope("tenant")
	require.ErrorContains(t, err, "unknown session scope")
}
