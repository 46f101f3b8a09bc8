package llm

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/reflectlabs/reflective-tutor/pkg/config"
)

// Role constants mirrored onto the wire format.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one chat turn sent to the completion endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer is the text-generation dependency used by the tutoring engine.
// Exactly one model is named per call; escalation chains live in the callers.
type Completer interface {
	CompleteJSON(ctx context.Context, model string, messages []Message, maxTokens int, temperature float32) (string, error)
}

// Client calls an OpenAI-compatible chat-completions endpoint (Groq) in
// JSON-object mode and returns the raw completion content.
type Client struct {
	api     *openai.Client
	timeout time.Duration
}

// NewClient creates a completion client from config.
func NewClient(cfg *config.GroqConfig) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		timeout: timeout,
	}
}

// CompleteJSON sends one JSON-mode chat completion request. A stalled call is
// bounded by the configured timeout so a hung upstream resolves to the caller's
// failure branch instead of blocking the request.
func (c *Client) CompleteJSON(ctx context.Context, model string, messages []Message, maxTokens int, temperature float32) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMsgs = append(chatMsgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model,
		Messages: chatMsgs,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from completion endpoint")
	}
	return resp.Choices[0].Message.Content, nil
}
