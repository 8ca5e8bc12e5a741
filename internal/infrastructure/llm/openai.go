package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"NewsNarrator/internal/ports"
)

// OpenAIConfig points the generator at OpenAI or any compatible endpoint.
type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	SystemPrompt string
	Timeout      time.Duration
}

// OpenAIGenerator implements ports.TextGenerator with chat completions.
type OpenAIGenerator struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a client from configuration.
func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("openai generator misconfigured: model is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	transport := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transport.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	transport.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIGenerator{
		client:       openai.NewClientWithConfig(transport),
		model:        cfg.Model,
		systemPrompt: strings.TrimSpace(cfg.SystemPrompt),
	}, nil
}

// Generate sends prompt as a single user message and returns the first choice.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if g.systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: g.systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
