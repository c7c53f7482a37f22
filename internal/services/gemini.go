package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"mentor-backend/internal/models"
)

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	slots  slots
}

func NewGeminiClient(ctx context.Context, apiKey string, opts ModelOptions) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(opts.Name)
	if opts.Temperature != nil {
		model.SetTemperature(*opts.Temperature)
	}

	return &GeminiClient{
		client: client,
		model:  model,
		slots:  newSlots(opts.Concurrency),
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Send replays history into a fresh chat session and sends message on top of it.
func (c *GeminiClient) Send(ctx context.Context, history []models.Turn, message string) (string, error) {
	if err := c.slots.acquire(ctx); err != nil {
		return "", &ModelError{Provider: ProviderGemini, Err: err}
	}
	defer c.slots.release()

	cs := c.model.StartChat()
	cs.History = toGeminiContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", &ModelError{Provider: ProviderGemini, Err: err}
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			log.Warn().Int("candidate", i).Str("finish_reason", cand.FinishReason.String()).Msg("Gemini stopped early")
		}
	}

	text := extractText(resp)
	if text == "" {
		return "", &ModelError{Provider: ProviderGemini, Err: fmt.Errorf("%w (finish reason %s)", errEmptyReply, finishReason(resp))}
	}
	return text, nil
}

func toGeminiContents(history []models.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, &genai.Content{
			Role:  string(turn.Role),
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func finishReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return "none"
	}
	return resp.Candidates[0].FinishReason.String()
}
