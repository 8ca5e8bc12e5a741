package usecase

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
	"NewsNarrator/internal/prompts"
)

const (
	defaultMinChars = 200
	defaultMaxChars = 300
)

// SummarizerConfig bounds synopses. Content shorter than MinChars runes is
// used as its own summary.
type SummarizerConfig struct {
	MinChars int
	MaxChars int
	Prompt   *prompts.Template
}

// Summarizer condenses article bodies through the text generator.
type Summarizer struct {
	generator ports.TextGenerator
	minChars  int
	maxChars  int
	prompt    *prompts.Template
	logger    *slog.Logger
}

// NewSummarizer applies defaults for zero config values.
func NewSummarizer(gen ports.TextGenerator, cfg SummarizerConfig, logger *slog.Logger) *Summarizer {
	if cfg.MinChars <= 0 {
		cfg.MinChars = defaultMinChars
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = defaultMaxChars
	}
	if cfg.Prompt == nil {
		cfg.Prompt = prompts.MustParse("summary", prompts.Summary)
	}
	return &Summarizer{
		generator: gen,
		minChars:  cfg.MinChars,
		maxChars:  cfg.MaxChars,
		prompt:    cfg.Prompt,
		logger:    logger,
	}
}

// Summarize returns the synopsis for content. Failures come back as the
// summary sentinel with StatusSummaryError, never as an error.
func (s *Summarizer) Summarize(ctx context.Context, content string) (string, domain.Status) {
	if utf8.RuneCountInString(content) < s.minChars {
		return content, domain.StatusOK
	}

	prompt, err := s.prompt.Render(prompts.SummaryData{MaxChars: s.maxChars, Text: content})
	if err != nil {
		s.warn("summary prompt", "error", err)
		return domain.SummaryError, domain.StatusSummaryError
	}

	if s.generator == nil {
		s.warn("summary skipped", "error", "text generator is not configured")
		return domain.SummaryError, domain.StatusSummaryError
	}

	out, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.warn("summary generation failed", "error", err)
		return domain.SummaryError, domain.StatusSummaryError
	}
	out = strings.TrimSpace(out)
	if out == "" {
		s.warn("summary generation returned empty text")
		return domain.SummaryError, domain.StatusSummaryError
	}
	return out, domain.StatusOK
}

// SummarizeAll summarizes articles in order. Articles whose content is a
// sentinel keep it as their summary and carry the content status.
func (s *Summarizer) SummarizeAll(ctx context.Context, articles []domain.Article) []domain.SummarizedArticle {
	out := make([]domain.SummarizedArticle, 0, len(articles))
	for _, article := range articles {
		article.InferStatus()
		item := domain.SummarizedArticle{Article: article}

		if !article.ContentStatus.OK() {
			item.Summary = article.Content
			item.SummaryStatus = article.ContentStatus
		} else {
			item.Summary, item.SummaryStatus = s.Summarize(ctx, article.Content)
		}

		s.debug("article summarized", "link", article.Link, "status", item.SummaryStatus)
		out = append(out, item)
	}
	return out
}

func (s *Summarizer) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Summarizer) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
