package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/ports"
	"NewsNarrator/internal/script"
)

// PipelineDeps wires all driven adapters into the narration pipeline.
// Repository and Notifier are optional.
type PipelineDeps struct {
	Source     ports.ArticleSource
	Repository ports.EpisodeRepository
	Summarizer *Summarizer
	Composer   *Composer
	Narrator   *Narrator
	Notifier   ports.Notifier
	Logger     *slog.Logger
	Now        func() time.Time
}

// Pipeline runs scrape → summarize → compose → normalize → synthesize.
type Pipeline struct {
	source     ports.ArticleSource
	repository ports.EpisodeRepository
	summarizer *Summarizer
	composer   *Composer
	narrator   *Narrator
	notifier   ports.Notifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:     deps.Source,
		repository: deps.Repository,
		summarizer: deps.Summarizer,
		composer:   deps.Composer,
		narrator:   deps.Narrator,
		notifier:   deps.Notifier,
		logger:     logger,
		now:        now,
	}
}

// Scrape fetches articles from every configured site, keeps the first
// occurrence of each link and drops links narrated in earlier runs.
func (p *Pipeline) Scrape(ctx context.Context) ([]domain.Article, error) {
	if p.source == nil {
		return nil, fmt.Errorf("article source is not configured")
	}

	articles, err := p.source.FetchArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	p.logger.Info("articles scraped", "count", len(articles))

	return p.dropNarrated(ctx, p.dropRepeated(articles)), nil
}

func (p *Pipeline) dropRepeated(articles []domain.Article) []domain.Article {
	seen := make(map[string]struct{}, len(articles))
	unique := articles[:0:0]
	for _, art := range articles {
		if _, dup := seen[art.Link]; dup {
			p.logger.Debug("repeated article dropped", "link", art.Link, "title", art.Title)
			continue
		}
		seen[art.Link] = struct{}{}
		unique = append(unique, art)
	}
	return unique
}

func (p *Pipeline) dropNarrated(ctx context.Context, articles []domain.Article) []domain.Article {
	if p.repository == nil || len(articles) == 0 {
		return articles
	}

	links := make([]string, len(articles))
	for i, art := range articles {
		links[i] = art.Link
	}

	seen, err := p.repository.AlreadyNarrated(ctx, links)
	if err != nil {
		p.logger.Warn("narration history unavailable", "error", err)
		return articles
	}

	fresh := articles[:0:0]
	for _, art := range articles {
		if seen[art.Link] {
			p.logger.Debug("article already narrated", "link", art.Link)
			continue
		}
		fresh = append(fresh, art)
	}
	if skipped := len(articles) - len(fresh); skipped > 0 {
		p.logger.Info("narrated articles skipped", "count", skipped)
	}
	return fresh
}

// Summarize condenses every article, preserving order.
func (p *Pipeline) Summarize(ctx context.Context, articles []domain.Article) []domain.SummarizedArticle {
	if p.summarizer == nil {
		return nil
	}
	items := p.summarizer.SummarizeAll(ctx, articles)

	failed := 0
	for _, item := range items {
		if !item.SummaryStatus.OK() {
			failed++
		}
	}
	p.logger.Info("articles summarized", "count", len(items), "failed", failed)
	return items
}

// Narrate composes one script from the summaries, normalizes it and renders
// it to audioPath. Composition and synthesis failures abort the run;
// history and notification failures are only logged.
func (p *Pipeline) Narrate(ctx context.Context, items []domain.SummarizedArticle, audioPath string) (domain.Episode, error) {
	episode := domain.Episode{
		RunID:     uuid.NewString(),
		CreatedAt: p.now(),
		Articles:  items,
	}
	logger := p.logger.With("run_id", episode.RunID)

	if p.composer == nil || p.narrator == nil {
		return episode, fmt.Errorf("pipeline is missing composer or narrator")
	}
	episode.Voice = p.narrator.Voice()

	raw, err := p.composer.Compose(ctx, ComposableSummaries(items))
	episode.Script = raw
	if err != nil {
		return episode, fmt.Errorf("compose script: %w", err)
	}
	logger.Info("script composed", "chars", len(raw))

	episode.CleanScript = script.Normalize(raw)
	logger.Debug("script normalized", "chars", len(episode.CleanScript))

	path, err := p.narrator.Render(ctx, episode.CleanScript, audioPath)
	if err != nil {
		return episode, fmt.Errorf("render audio: %w", err)
	}
	episode.AudioPath = path
	logger.Info("audio rendered", "path", path)

	if p.repository != nil {
		if err := p.repository.SaveEpisode(ctx, episode); err != nil {
			logger.Warn("persist episode", "error", err)
		}
	}

	if p.notifier != nil {
		if err := p.notifier.PublishEpisode(ctx, buildEpisodeMessage(episode)); err != nil {
			logger.Warn("notify episode", "error", err)
		}
	}

	return episode, nil
}

// Run executes every stage in sequence.
func (p *Pipeline) Run(ctx context.Context, audioPath string) (domain.Episode, error) {
	articles, err := p.Scrape(ctx)
	if err != nil {
		return domain.Episode{}, err
	}
	if len(articles) == 0 {
		return domain.Episode{}, domain.ErrNoArticles
	}
	return p.Narrate(ctx, p.Summarize(ctx, articles), audioPath)
}

func buildEpisodeMessage(episode domain.Episode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New episode ready (%s)\n%s\n", episode.CreatedAt.Format("2006-01-02 15:04"), episode.AudioPath)
	for _, item := range episode.Articles {
		if !item.SummaryStatus.OK() {
			continue
		}
		fmt.Fprintf(&b, "\n- %s\n%s\n", item.Title, item.Link)
	}
	return b.String()
}
