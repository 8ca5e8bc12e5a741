package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
)

const defaultOpenAIVoice = "alloy"

var openAIVoices = map[string]bool{
	"alloy": true, "echo": true, "fable": true, "onyx": true, "nova": true, "shimmer": true,
}

// OpenAIConfig points the synthesizer at OpenAI or a compatible endpoint.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAISynthesizer implements ports.SpeechSynthesizer with the audio/speech API.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
}

var _ ports.SpeechSynthesizer = (*OpenAISynthesizer)(nil)

// NewOpenAISynthesizer builds a client from configuration.
func NewOpenAISynthesizer(cfg OpenAIConfig) *OpenAISynthesizer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	transport := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		transport.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	transport.HTTPClient = &http.Client{Timeout: timeout}

	model := cfg.Model
	if model == "" {
		model = string(openai.TTSModel1)
	}
	return &OpenAISynthesizer{client: openai.NewClientWithConfig(transport), model: model}
}

// Synthesize maps the voice onto OpenAI's voice names; Google-style voice
// names fall back to alloy. Pitch and gender have no equivalent.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string, voice domain.VoiceConfig) ([]byte, error) {
	name := strings.ToLower(strings.TrimSpace(voice.VoiceName))
	if !openAIVoices[name] {
		name = defaultOpenAIVoice
	}

	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(name),
		ResponseFormat: openAIFormat(voice.Encoding),
		Speed:          voice.SpeakingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("create speech: %w", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	return audio, nil
}

func openAIFormat(encoding string) openai.SpeechResponseFormat {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "WAV", "LINEAR16":
		return openai.SpeechResponseFormat("wav")
	case "OGG", "OGG_OPUS", "OPUS":
		return openai.SpeechResponseFormatOpus
	case "FLAC":
		return openai.SpeechResponseFormat("flac")
	default:
		return openai.SpeechResponseFormatMp3
	}
}
