package tts

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/option"
	texttospeech "google.golang.org/api/texttospeech/v1"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
)

// GoogleConfig carries Cloud Text-to-Speech identity. An empty
// CredentialsFile falls back to application default credentials.
type GoogleConfig struct {
	CredentialsFile string
	QuotaProject    string
	Endpoint        string
	HTTPClient      *http.Client
	NoAuth          bool
	// Timeout bounds one synthesize call; zero leaves it to ctx.
	Timeout time.Duration
}

// GoogleSynthesizer implements ports.SpeechSynthesizer on Cloud Text-to-Speech.
type GoogleSynthesizer struct {
	svc     *texttospeech.Service
	timeout time.Duration
}

var _ ports.SpeechSynthesizer = (*GoogleSynthesizer)(nil)

// NewGoogleSynthesizer creates the REST service client.
func NewGoogleSynthesizer(ctx context.Context, cfg GoogleConfig) (*GoogleSynthesizer, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.QuotaProject != "" {
		opts = append(opts, option.WithQuotaProject(cfg.QuotaProject))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.NoAuth {
		opts = append(opts, option.WithoutAuthentication())
	}

	svc, err := texttospeech.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create text-to-speech service: %w", err)
	}
	return &GoogleSynthesizer{svc: svc, timeout: cfg.Timeout}, nil
}

// Synthesize renders text with the given voice and decodes the audio payload.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text string, voice domain.VoiceConfig) ([]byte, error) {
	req := &texttospeech.SynthesizeSpeechRequest{
		Input: &texttospeech.SynthesisInput{Text: text},
		Voice: &texttospeech.VoiceSelectionParams{
			LanguageCode: voice.LanguageCode,
			Name:         voice.VoiceName,
			SsmlGender:   strings.ToUpper(voice.Gender),
		},
		AudioConfig: &texttospeech.AudioConfig{
			AudioEncoding:   googleEncoding(voice.Encoding),
			SpeakingRate:    voice.SpeakingRate,
			Pitch:           voice.Pitch,
			ForceSendFields: []string{"Pitch"},
		},
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.svc.Text.Synthesize(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(resp.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("decode audio content: %w", err)
	}
	return audio, nil
}

func googleEncoding(encoding string) string {
	switch strings.ToUpper(strings.TrimSpace(encoding)) {
	case "", "MP3":
		return "MP3"
	case "WAV", "LINEAR16":
		return "LINEAR16"
	case "OGG", "OGG_OPUS", "OPUS":
		return "OGG_OPUS"
	default:
		return strings.ToUpper(encoding)
	}
}
