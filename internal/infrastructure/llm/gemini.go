package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"NewsNarrator/internal/ports"
)

// GeminiConfig selects Vertex AI (Project + Location) or the Gemini API
// (APIKey). BaseURL overrides the service endpoint.
type GeminiConfig struct {
	Project  string
	Location string
	APIKey   string
	Model    string
	BaseURL  string
	Timeout  time.Duration
}

// GeminiGenerator implements ports.TextGenerator on google.golang.org/genai.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

var _ ports.TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates the client. An API key wins over Vertex AI
// project settings.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("gemini generator misconfigured: model is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 90 * time.Second
	}

	clientCfg := &genai.ClientConfig{
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}
	switch {
	case cfg.APIKey != "":
		clientCfg.APIKey = cfg.APIKey
		clientCfg.Backend = genai.BackendGeminiAPI
	case cfg.Project != "":
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
		clientCfg.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini generator misconfigured: set an API key or a project")
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: cfg.Model}, nil
}

// Generate returns the concatenated text parts of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini generate content: empty response")
	}
	return text, nil
}
