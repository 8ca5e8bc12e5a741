package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileDefaults(t *testing.T) {
	cfg := LoadFile("")

	if cfg.Summary.MinChars != 200 || cfg.Summary.MaxChars != 300 {
		t.Fatalf("unexpected summary bounds %+v", cfg.Summary)
	}
	if cfg.Scraper.RequestDelay != 2*time.Second {
		t.Fatalf("unexpected delay %s", cfg.Scraper.RequestDelay)
	}
	if cfg.Speech.Timeout != 2*time.Minute {
		t.Fatalf("unexpected speech timeout %s", cfg.Speech.Timeout)
	}
	if cfg.Speech.Voice.VoiceName != "en-US-Wavenet-F" || cfg.Speech.Voice.SpeakingRate != 1.0 {
		t.Fatalf("unexpected voice %+v", cfg.Speech.Voice)
	}
	if cfg.Output.ArticlesFile != "news_articles.json" || cfg.Output.AudioFile != "podcast_output.mp3" {
		t.Fatalf("unexpected outputs %+v", cfg.Output)
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].TitleSelector.Class != "loop-card__title-link" {
		t.Fatalf("unexpected default sites %+v", cfg.Sites)
	}
}

func TestLoadFileMergesYAML(t *testing.T) {
	path := writeConfig(t, `
logging:
  format: json
scraper:
  requestDelay: 500ms
generator:
  provider: OpenAI
  model: gpt-4o-mini
speech:
  timeout: 45s
  voice:
    voiceName: en-GB-Neural2-A
    gender: male
scheduler:
  timezone: Europe/Berlin
sites:
  - name: verge
    url: https://www.theverge.com/tech
    titleSelector:
      css: "h2 a"
    contentSelector:
      tag: div
      class: duet--article--article-body-component
    maxArticles: 3
`)
	cfg := LoadFile(path)

	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging %+v", cfg.Logging)
	}
	if cfg.Scraper.RequestDelay != 500*time.Millisecond || cfg.Scraper.MaxAttempts != 3 {
		t.Fatalf("unexpected scraper %+v", cfg.Scraper)
	}
	if cfg.Generator.Provider != "openai" || cfg.Generator.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected generator %+v", cfg.Generator)
	}
	if cfg.Speech.Timeout != 45*time.Second || cfg.Speech.Provider != "google" {
		t.Fatalf("unexpected speech %+v", cfg.Speech)
	}
	voice := cfg.Speech.Voice
	if voice.VoiceName != "en-GB-Neural2-A" || voice.Gender != "MALE" || voice.LanguageCode != "en-US" || voice.Encoding != "MP3" {
		t.Fatalf("unexpected voice %+v", voice)
	}
	if cfg.Scheduler.Location().String() != "Europe/Berlin" {
		t.Fatalf("unexpected location %s", cfg.Scheduler.Location())
	}
	if len(cfg.Sites) != 1 || cfg.Sites[0].Name != "verge" || cfg.Sites[0].TitleSelector.CSS != "h2 a" {
		t.Fatalf("unexpected sites %+v", cfg.Sites)
	}
}

func TestLoadFileEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "gemini")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("GCP_PROJECT_ID", "my-project")
	t.Setenv("GCP_REGION", "europe-west4")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")
	t.Setenv("DATABASE_DSN", "postgres://localhost/news")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("LOG_LEVEL", "warn")

	cfg := LoadFile("")

	if cfg.Generator.APIKey != "gem-key" || cfg.Google.ProjectID != "my-project" || cfg.Google.Region != "europe-west4" {
		t.Fatalf("unexpected google settings %+v %+v", cfg.Generator, cfg.Google)
	}
	if cfg.Google.CredentialsFile != "/secrets/sa.json" || cfg.Database.DSN != "postgres://localhost/news" {
		t.Fatalf("unexpected credentials/dsn %+v %+v", cfg.Google, cfg.Database)
	}
	if cfg.Notifications.Telegram.ChatID != "42" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected env overrides")
	}
}

func TestLoadFileInvalidInputsFallBack(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if cfg.Generator.Provider != "gemini" {
		t.Fatalf("missing file should keep defaults, got %+v", cfg.Generator)
	}

	cfg = LoadFile(writeConfig(t, "scheduler: [unterminated"))
	if cfg.Scheduler.CronExpression != "0 6 * * *" {
		t.Fatalf("broken yaml should keep defaults, got %+v", cfg.Scheduler)
	}

	cfg = LoadFile(writeConfig(t, "scheduler:\n  timezone: Mars/Olympus\n"))
	if cfg.Scheduler.Location() != time.UTC && cfg.Scheduler.Location().String() != "UTC" {
		t.Fatalf("unknown timezone should fall back to UTC, got %s", cfg.Scheduler.Location())
	}
}
