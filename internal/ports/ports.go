package ports

import (
	"context"
	"time"

	"NewsNarrator/internal/domain"
)

// ArticleSource pulls articles with extracted content from configured sites.
type ArticleSource interface {
	FetchArticles(ctx context.Context) ([]domain.Article, error)
}

// TextGenerator is the generative text service used for summaries and scripts.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// SpeechSynthesizer renders text to encoded audio bytes.
type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string, voice domain.VoiceConfig) ([]byte, error)
}

// AudioStore persists rendered audio and returns the written path.
type AudioStore interface {
	Save(ctx context.Context, path string, data []byte) (string, error)
}

// EpisodeRepository keeps narration history for deduplication/audit.
type EpisodeRepository interface {
	AlreadyNarrated(ctx context.Context, links []string) (map[string]bool, error)
	SaveEpisode(ctx context.Context, episode domain.Episode) error
}

// Notifier announces finished episodes to Telegram or other channels.
type Notifier interface {
	PublishEpisode(ctx context.Context, message string) error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
