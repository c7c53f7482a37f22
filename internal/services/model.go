package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mentor-backend/internal/models"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	slotWaitTimeout = 5 * time.Minute
)

// ModelClient sends a dialogue history plus one new message to a hosted
// generative model and returns the reply text. Implementations keep no
// per-call state and are safe for concurrent use.
type ModelClient interface {
	Send(ctx context.Context, history []models.Turn, message string) (string, error)
	Close() error
}

// ModelOptions configures a ModelClient.
type ModelOptions struct {
	Name        string
	Temperature *float32
	Concurrency int
}

// ModelError is the single failure kind surfaced by a ModelClient. Transport,
// quota, credential and malformed-response failures all collapse into it.
type ModelError struct {
	Provider string
	Err      error
}

func (e *ModelError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *ModelError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var errEmptyReply = errors.New("model returned no text")

// slots caps the number of in-flight model calls.
type slots chan struct{}

func newSlots(n int) slots {
	if n <= 0 {
		n = 1
	}
	s := make(slots, n)
	for i := 0; i < n; i++ {
		s <- struct{}{}
	}
	return s
}

// acquire blocks until a slot is available
func (s slots) acquire(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(slotWaitTimeout):
		return fmt.Errorf("timeout waiting for model slot")
	}
}

func (s slots) release() {
	s <- struct{}{}
}

// NewModelClient builds the client for provider.
func NewModelClient(ctx context.Context, provider, apiKey string, opts ModelOptions) (ModelClient, error) {
	switch provider {
	case ProviderGemini:
		c, err := NewGeminiClient(ctx, apiKey, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	case ProviderOpenAI:
		c, err := NewOpenAIClient(apiKey, opts)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", provider)
	}
}
