package usecase

import (
	"context"
	"fmt"
	"strings"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
)

// Narrator renders normalized scripts to audio with a fixed voice.
type Narrator struct {
	synthesizer ports.SpeechSynthesizer
	store       ports.AudioStore
	voice       domain.VoiceConfig
}

// NewNarrator binds a synthesizer, an audio store and the voice to use.
func NewNarrator(synth ports.SpeechSynthesizer, store ports.AudioStore, voice domain.VoiceConfig) *Narrator {
	return &Narrator{synthesizer: synth, store: store, voice: voice}
}

// Voice reports the configured voice.
func (n *Narrator) Voice() domain.VoiceConfig {
	return n.voice
}

// Synthesize returns encoded audio for text. Blank text is rejected with
// ErrEmptyScript before any service call.
func (n *Narrator) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyScript
	}
	if n.synthesizer == nil {
		return nil, fmt.Errorf("%w: speech synthesizer is not configured", domain.ErrSynthesisFailed)
	}

	audio, err := n.synthesizer.Synthesize(ctx, text, n.voice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSynthesisFailed, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: empty audio", domain.ErrSynthesisFailed)
	}
	return audio, nil
}

// Render synthesizes text and stores the audio at path. Nothing is written
// when synthesis fails.
func (n *Narrator) Render(ctx context.Context, text, path string) (string, error) {
	audio, err := n.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}
	if n.store == nil {
		return "", fmt.Errorf("audio store is not configured")
	}
	written, err := n.store.Save(ctx, path, audio)
	if err != nil {
		return "", fmt.Errorf("save audio: %w", err)
	}
	return written, nil
}
