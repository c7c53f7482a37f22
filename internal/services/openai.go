package services

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mentor-backend/internal/models"
)

// chatCompleter is the part of *openai.Client used here.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type OpenAIClient struct {
	api         chatCompleter
	model       string
	temperature *float32
	slots       slots
}

func NewOpenAIClient(apiKey string, opts ModelOptions) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingCredential
	}
	return newOpenAIClient(openai.NewClient(apiKey), opts), nil
}

func newOpenAIClient(api chatCompleter, opts ModelOptions) *OpenAIClient {
	return &OpenAIClient{
		api:         api,
		model:       opts.Name,
		temperature: opts.Temperature,
		slots:       newSlots(opts.Concurrency),
	}
}

func (c *OpenAIClient) Close() error {
	return nil
}

func (c *OpenAIClient) Send(ctx context.Context, history []models.Turn, message string) (string, error) {
	if err := c.slots.acquire(ctx); err != nil {
		return "", &ModelError{Provider: ProviderOpenAI, Err: err}
	}
	defer c.slots.release()

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: toOpenAIMessages(history, message),
	}
	if c.temperature != nil {
		req.Temperature = *c.temperature
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ModelError{Provider: ProviderOpenAI, Err: err}
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		reason := "none"
		if len(resp.Choices) > 0 {
			reason = string(resp.Choices[0].FinishReason)
		}
		return "", &ModelError{Provider: ProviderOpenAI, Err: fmt.Errorf("%w (finish reason %s)", errEmptyReply, reason)}
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(history []models.Turn, message string) []openai.ChatCompletionMessage {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	return append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
}
