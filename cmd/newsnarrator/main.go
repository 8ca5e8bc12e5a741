package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"NewsNarrator/internal/app"
	"NewsNarrator/internal/config"
	"NewsNarrator/internal/domain"
	"NewsNarrator/internal/logging"
	"NewsNarrator/pkg/logger"
)

const usage = `Usage: newsnarrator [flags] <command>

Commands:
  scrape     fetch articles from the configured sites into the articles file
  summarize  summarize the articles file into the summaries file
  narrate    compose, clean and synthesize the summaries file into audio
  run        all three stages in sequence
  schedule   run all stages on the configured cron expression

Flags:
`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.New("main").Printf("cannot load .env: %v", err)
	}

	var (
		configPath    string
		articlesPath  string
		summariesPath string
		audioPath     string
		scriptPath    string
		verbose       bool
	)

	flag.StringVar(&configPath, "config", os.Getenv("NEWSNARRATOR_CONFIG"), "Path to YAML configuration")
	flag.StringVar(&articlesPath, "articles", "", "Articles file (overrides output.articlesFile)")
	flag.StringVar(&summariesPath, "summaries", "", "Summaries file (overrides output.summariesFile)")
	flag.StringVar(&audioPath, "audio", "", "Audio output file (overrides output.audioFile)")
	flag.StringVar(&scriptPath, "script", "", "Write the cleaned script to this file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg := config.LoadFile(configPath)
	if verbose {
		cfg.Logging.Level = "debug"
	}
	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	paths := app.PathsFromConfig(cfg)
	override(&paths.Articles, articlesPath)
	override(&paths.Summaries, summariesPath)
	override(&paths.Audio, audioPath)
	override(&paths.Script, scriptPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	switch command {
	case "scrape":
		_, err = application.RunScrape(ctx, paths)
	case "summarize":
		_, err = application.RunSummarize(ctx, paths)
	case "narrate":
		var episode domain.Episode
		if episode, err = application.RunNarrate(ctx, paths); err == nil {
			log.Info("episode ready", "run_id", episode.RunID, "audio", episode.AudioPath)
		}
	case "run":
		var episode domain.Episode
		if episode, err = application.RunAll(ctx, paths); err == nil {
			log.Info("episode ready", "run_id", episode.RunID, "audio", episode.AudioPath)
		}
	case "schedule":
		err = application.Serve(ctx, paths)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		log.Error("command failed", "command", command, "error", err)
		stop()
		_ = application.Close()
		os.Exit(1)
	}
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
