package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewModelClient_MissingCredential(t *testing.T) {
	for _, provider := range []string{ProviderGemini, ProviderOpenAI} {
		t.Run(provider, func(t *testing.T) {
			client, err := NewModelClient(context.Background(), provider, "  ", ModelOptions{Name: "m", Concurrency: 1})
			require.ErrorIs(t, err, ErrMissingCredential)
			require.Nil(t, client)
		})
	}
}

func TestNewModelClient_UnknownProvider(t *testing.T) {
	_, err := NewModelClient(context.Background(), "claude", "key", ModelOptions{})
	require.ErrorContains(t, err, "unknown model provider")
}

func TestModelError_WrapsCause(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := error(&ModelError{Provider: ProviderGemini, Err: cause})

	require.ErrorIs(t, err, cause)
	require.Equal(t, "gemini request failed: quota exceeded", err.Error())

	var modelErr *ModelError
	require.True(t, errors.As(err, &modelErr))
}

func TestSlots_AcquireHonorsContext(t *testing.T) {
	s := newSlots(1)
	require.NoError(t, s.acquire(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.acquire(ctx), context.Canceled)

	s.release()
	require.NoError(t, s.acquire(context.Background()))
}
