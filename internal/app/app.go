package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"NewsNarrator/internal/config"
	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/infrastructure/llm"
	"NewsNarrator/internal/infrastructure/ml"
	"NewsNarrator/internal/infrastructure/parser"
	"NewsNarrator/internal/infrastructure/scheduler"
	"NewsNarrator/internal/infrastructure/storage"
	"NewsNarrator/internal/infrastructure/telegram"
	"NewsNarrator/internal/infrastructure/tts"
	"NewsNarrator/internal/logging"
	"NewsNarrator/internal/ports"
	"NewsNarrator/internal/prompts"
	"NewsNarrator/internal/scanner"
	"NewsNarrator/internal/usecase"
)

// Paths names the hand-off files of one invocation.
type Paths struct {
	Articles  string
	Summaries string
	Script    string
	Audio     string
}

// PathsFromConfig returns the configured output file names.
func PathsFromConfig(cfg config.Config) Paths {
	return Paths{
		Articles:  cfg.Output.ArticlesFile,
		Summaries: cfg.Output.SummariesFile,
		Script:    cfg.Output.ScriptFile,
		Audio:     cfg.Output.AudioFile,
	}
}

// Stamped returns the paths of a scheduled run: every file name carries the
// trigger time so runs never overwrite each other.
func (p Paths) Stamped(trigger time.Time) Paths {
	return Paths{
		Articles:  usecase.StampedPath(p.Articles, trigger),
		Summaries: usecase.StampedPath(p.Summaries, trigger),
		Script:    usecase.StampedPath(p.Script, trigger),
		Audio:     usecase.StampedPath(p.Audio, trigger),
	}
}

// Application wires configs to use cases and lifecycle orchestration.
// Generative and speech clients are built on first use.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	source     ports.ArticleSource
	repository ports.EpisodeRepository
	notifier   ports.Notifier
	db         *sql.DB

	generator   ports.TextGenerator
	synthesizer ports.SpeechSynthesizer
}

// New builds the application. The history database is optional: when it is
// configured but unreachable the application runs without it.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	scannerLogger := baseLogger.With("component", "scanner.selector")
	registry := scanner.NewRegistry()
	registry.Register(parser.NewSelectorScanner(
		&http.Client{Timeout: cfg.Scraper.Timeout},
		parser.Options{
			UserAgent:    cfg.Scraper.UserAgent,
			MaxAttempts:  cfg.Scraper.MaxAttempts,
			RequestDelay: cfg.Scraper.RequestDelay,
		},
		scannerLogger,
	))

	a := &Application{
		cfg:    cfg,
		logger: baseLogger,
		source: parser.NewStrategySource(registry, cfg.Sites, baseLogger.With("component", "source")),
	}

	if cfg.Database.DSN != "" {
		a.openHistory(ctx, cfg.Database.DSN)
	}

	tg := cfg.Notifications.Telegram
	if tg.BotToken != "" && tg.ChatID != "" {
		a.notifier = telegram.NewNotifier(tg.BotToken, tg.ChatID, "")
	}

	return a, nil
}

func (a *Application) openHistory(ctx context.Context, dsn string) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		a.logger.Warn("narration history disabled", "error", fmt.Errorf("open database: %w", err))
		return
	}
	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		a.logger.Warn("narration history disabled", "error", err)
		return
	}
	a.db = db
	a.repository = repo
}

// Close releases the database handle.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// RunScrape fetches every site and writes the articles file.
func (a *Application) RunScrape(ctx context.Context, paths Paths) ([]domain.Article, error) {
	pipeline, err := a.pipeline(ctx, false, false)
	if err != nil {
		return nil, err
	}
	articles, err := pipeline.Scrape(ctx)
	if err != nil {
		return nil, err
	}
	if err := storage.SaveJSON(paths.Articles, articles); err != nil {
		return nil, err
	}
	a.logger.Info("articles saved", "path", paths.Articles, "count", len(articles))
	return articles, nil
}

// RunSummarize reads the articles file and writes the summaries file.
func (a *Application) RunSummarize(ctx context.Context, paths Paths) ([]domain.SummarizedArticle, error) {
	articles, err := storage.LoadArticles(paths.Articles)
	if err != nil {
		return nil, err
	}
	return a.summarize(ctx, articles, paths)
}

func (a *Application) summarize(ctx context.Context, articles []domain.Article, paths Paths) ([]domain.SummarizedArticle, error) {
	pipeline, err := a.pipeline(ctx, true, false)
	if err != nil {
		return nil, err
	}
	items := pipeline.Summarize(ctx, articles)
	if err := storage.SaveJSON(paths.Summaries, items); err != nil {
		return nil, err
	}
	a.logger.Info("summaries saved", "path", paths.Summaries, "count", len(items))
	return items, nil
}

// RunNarrate reads the summaries file and renders the episode audio.
func (a *Application) RunNarrate(ctx context.Context, paths Paths) (domain.Episode, error) {
	items, err := storage.LoadSummaries(paths.Summaries)
	if err != nil {
		return domain.Episode{}, err
	}
	return a.narrate(ctx, items, paths)
}

func (a *Application) narrate(ctx context.Context, items []domain.SummarizedArticle, paths Paths) (domain.Episode, error) {
	pipeline, err := a.pipeline(ctx, true, true)
	if err != nil {
		return domain.Episode{}, err
	}
	episode, err := pipeline.Narrate(ctx, items, paths.Audio)
	if err != nil {
		return episode, err
	}
	if paths.Script != "" {
		if err := storage.SaveText(paths.Script, episode.CleanScript); err != nil {
			a.logger.Warn("script not saved", "path", paths.Script, "error", err)
		}
	}
	return episode, nil
}

// RunAll executes every stage, keeping the intermediate files.
func (a *Application) RunAll(ctx context.Context, paths Paths) (domain.Episode, error) {
	articles, err := a.RunScrape(ctx, paths)
	if err != nil {
		return domain.Episode{}, err
	}
	if len(articles) == 0 {
		return domain.Episode{}, domain.ErrNoArticles
	}
	items, err := a.summarize(ctx, articles, paths)
	if err != nil {
		return domain.Episode{}, err
	}
	return a.narrate(ctx, items, paths)
}

// Serve runs every stage on the configured cron schedule until ctx is
// cancelled. Each run keeps its own stamped hand-off files.
func (a *Application) Serve(ctx context.Context, paths Paths) error {
	if _, err := a.pipeline(ctx, true, true); err != nil {
		return err
	}

	spec := a.cfg.Scheduler.CronExpression
	loc := a.cfg.Scheduler.Location()
	next, err := scheduler.Next(spec, time.Now().In(loc))
	if err != nil {
		return err
	}
	a.logger.Info("scheduler starting", "cron", spec, "next_run", next)

	return a.serve(ctx, paths, scheduler.NewCronScheduler(spec, loc))
}

func (a *Application) serve(ctx context.Context, paths Paths, driver ports.Scheduler) error {
	run := func(ctx context.Context, trigger time.Time) (domain.Episode, error) {
		return a.RunAll(ctx, paths.Stamped(trigger))
	}
	sched := usecase.NewScheduler(driver, run, a.logger.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return sched.Stop(stopCtx)
}

// pipeline assembles the stages a command needs; service clients are only
// created when withText or withSpeech asks for them.
func (a *Application) pipeline(ctx context.Context, withText, withSpeech bool) (*usecase.Pipeline, error) {
	deps := usecase.PipelineDeps{
		Source:     a.source,
		Repository: a.repository,
		Notifier:   a.notifier,
		Logger:     a.logger.With("component", "pipeline"),
	}
	if !withText {
		return usecase.NewPipeline(deps), nil
	}

	summaryPrompt, err := prompts.Parse("summary", a.cfg.Prompts.Summary, prompts.Summary)
	if err != nil {
		return nil, err
	}
	scriptPrompt, err := prompts.Parse("script", a.cfg.Prompts.Script, prompts.Script)
	if err != nil {
		return nil, err
	}

	gen, err := a.textGenerator(ctx)
	if err != nil {
		return nil, err
	}
	deps.Summarizer = usecase.NewSummarizer(gen, usecase.SummarizerConfig{
		MinChars: a.cfg.Summary.MinChars,
		MaxChars: a.cfg.Summary.MaxChars,
		Prompt:   summaryPrompt,
	}, a.logger.With("component", "summarizer"))
	deps.Composer = usecase.NewComposer(gen, scriptPrompt)

	if withSpeech {
		synth, err := a.speechSynthesizer(ctx)
		if err != nil {
			return nil, err
		}
		deps.Narrator = usecase.NewNarrator(synth, storage.FileStore{}, a.cfg.Speech.Voice)
	}

	return usecase.NewPipeline(deps), nil
}

func (a *Application) textGenerator(ctx context.Context) (ports.TextGenerator, error) {
	if a.generator != nil {
		return a.generator, nil
	}

	gc := a.cfg.Generator
	var (
		gen ports.TextGenerator
		err error
	)
	switch gc.Provider {
	case "gemini":
		gen, err = llm.NewGeminiGenerator(ctx, llm.GeminiConfig{
			Project:  a.cfg.Google.ProjectID,
			Location: a.cfg.Google.Region,
			APIKey:   gc.APIKey,
			Model:    gc.Model,
			BaseURL:  gc.Endpoint,
			Timeout:  gc.Timeout,
		})
	case "openai":
		gen, err = llm.NewOpenAIGenerator(llm.OpenAIConfig{
			APIKey:  gc.APIKey,
			BaseURL: gc.Endpoint,
			Model:   gc.Model,
			Timeout: gc.Timeout,
		})
	case "http":
		gen = ml.NewClient(gc.Endpoint, gc.APIKey, gc.Model, gc.Timeout)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", gc.Provider)
	}
	if err != nil {
		return nil, err
	}
	a.generator = gen
	return gen, nil
}

func (a *Application) speechSynthesizer(ctx context.Context) (ports.SpeechSynthesizer, error) {
	if a.synthesizer != nil {
		return a.synthesizer, nil
	}

	sc := a.cfg.Speech
	var synth ports.SpeechSynthesizer
	switch sc.Provider {
	case "google":
		g, err := tts.NewGoogleSynthesizer(ctx, tts.GoogleConfig{
			CredentialsFile: a.cfg.Google.CredentialsFile,
			QuotaProject:    a.cfg.Google.ProjectID,
			Endpoint:        sc.Endpoint,
			Timeout:         sc.Timeout,
		})
		if err != nil {
			return nil, err
		}
		synth = g
	case "openai":
		synth = tts.NewOpenAISynthesizer(tts.OpenAIConfig{
			APIKey:  sc.APIKey,
			BaseURL: sc.Endpoint,
			Model:   sc.Model,
			Timeout: sc.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown speech provider %q", sc.Provider)
	}
	a.synthesizer = synth
	return synth, nil
}
