package config

import (
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"NewsNarrator/internal/domain"
	"NewsNarrator/pkg/logger"
)

const (
	defaultTimezone = "UTC"

	configPathEnv        = "NEWSNARRATOR_CONFIG"
	logLevelEnv          = "LOG_LEVEL"
	databaseDSNEnv       = "DATABASE_DSN"
	credentialsEnv       = "GOOGLE_APPLICATION_CREDENTIALS"
	projectIDEnv         = "GCP_PROJECT_ID"
	regionEnv            = "GCP_REGION"
	geminiAPIKeyEnv      = "GEMINI_API_KEY"
	openAIAPIKeyEnv      = "OPENAI_API_KEY"
	generatorProviderEnv = "LLM_PROVIDER"
	generatorModelEnv    = "LLM_MODEL"
	speechProviderEnv    = "TTS_PROVIDER"
	telegramTokenEnv     = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv    = "TELEGRAM_CHAT_ID"
)

var warn = logger.New("config")

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Scraper       ScraperConfig      `yaml:"scraper"`
	Google        GoogleConfig       `yaml:"google"`
	Generator     GeneratorConfig    `yaml:"generator"`
	Summary       SummaryConfig      `yaml:"summary"`
	Prompts       PromptConfig       `yaml:"prompts"`
	Speech        SpeechConfig       `yaml:"speech"`
	Output        OutputConfig       `yaml:"output"`
	Notifications NotificationConfig `yaml:"notifications"`
	Sites         []SiteConfig       `yaml:"sites"`
}

// LoggingConfig selects slog level and handler format (text or json).
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig describes the optional Postgres narration history.
// An empty DSN disables history.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SchedulerConfig defines when scheduled runs fire.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ScraperConfig tunes outbound page fetches.
type ScraperConfig struct {
	UserAgent    string        `yaml:"userAgent"`
	RequestDelay time.Duration `yaml:"requestDelay"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxAttempts  int           `yaml:"maxAttempts"`
}

// GoogleConfig carries Google Cloud identity shared by Gemini and TTS.
type GoogleConfig struct {
	CredentialsFile string `yaml:"credentialsFile"`
	ProjectID       string `yaml:"projectId"`
	Region          string `yaml:"region"`
}

// GeneratorConfig selects and configures the generative text service.
// Provider is one of gemini, openai, http.
type GeneratorConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	APIKey   string        `yaml:"apiKey"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// SummaryConfig bounds article synopses.
type SummaryConfig struct {
	MinChars int `yaml:"minChars"`
	MaxChars int `yaml:"maxChars"`
}

// PromptConfig overrides the embedded prompt templates.
type PromptConfig struct {
	Summary string `yaml:"summary"`
	Script  string `yaml:"script"`
}

// SpeechConfig selects the speech synthesis service and voice.
// Provider is one of google, openai.
type SpeechConfig struct {
	Provider string             `yaml:"provider"`
	Model    string             `yaml:"model"`
	APIKey   string             `yaml:"apiKey"`
	Endpoint string             `yaml:"endpoint"`
	Timeout  time.Duration      `yaml:"timeout"`
	Voice    domain.VoiceConfig `yaml:"voice"`
}

// OutputConfig names the stage hand-off files.
type OutputConfig struct {
	ArticlesFile  string `yaml:"articlesFile"`
	SummariesFile string `yaml:"summariesFile"`
	ScriptFile    string `yaml:"scriptFile"`
	AudioFile     string `yaml:"audioFile"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SiteConfig describes a single news site with its scanner strategy.
type SiteConfig struct {
	Name            string            `yaml:"name"`
	Scanner         string            `yaml:"scanner"`
	ListingURL      string            `yaml:"url"`
	BaseURL         string            `yaml:"baseUrl"`
	TitleSelector   SelectorConfig    `yaml:"titleSelector"`
	ContentSelector SelectorConfig    `yaml:"contentSelector"`
	LinkAttr        string            `yaml:"linkAttr"`
	MaxArticles     int               `yaml:"maxArticles"`
	Options         map[string]string `yaml:"options"`
}

// SelectorConfig is either raw CSS or tag/class/id/attribute constraints.
type SelectorConfig struct {
	CSS   string            `yaml:"css"`
	Tag   string            `yaml:"tag"`
	Class string            `yaml:"class"`
	ID    string            `yaml:"id"`
	Attrs map[string]string `yaml:"attrs"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	return LoadFile(os.Getenv(configPathEnv))
}

// LoadFile is Load with an explicit config path; an empty path skips the file.
func LoadFile(path string) Config {
	cfg := defaultConfig()

	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			warn.Printf("cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				warn.Printf("cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Sites) == 0 {
		cfg.Sites = defaultConfig().Sites
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(credentialsEnv); v != "" {
		c.Google.CredentialsFile = v
	}
	if v := os.Getenv(projectIDEnv); v != "" {
		c.Google.ProjectID = v
	}
	if v := os.Getenv(regionEnv); v != "" {
		c.Google.Region = v
	}

	if v := os.Getenv(generatorProviderEnv); v != "" {
		c.Generator.Provider = strings.ToLower(v)
	}
	if v := os.Getenv(generatorModelEnv); v != "" {
		c.Generator.Model = v
	}
	if v := os.Getenv(speechProviderEnv); v != "" {
		c.Speech.Provider = strings.ToLower(v)
	}

	switch c.Generator.Provider {
	case "gemini":
		if v := os.Getenv(geminiAPIKeyEnv); v != "" {
			c.Generator.APIKey = v
		}
	case "openai":
		if v := os.Getenv(openAIAPIKeyEnv); v != "" {
			c.Generator.APIKey = v
		}
	}
	if c.Speech.Provider == "openai" {
		if v := os.Getenv(openAIAPIKeyEnv); v != "" {
			c.Speech.APIKey = v
		}
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		warn.Printf("unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Scraper.UserAgent != "" {
		base.Scraper.UserAgent = override.Scraper.UserAgent
	}
	if override.Scraper.RequestDelay != 0 {
		base.Scraper.RequestDelay = override.Scraper.RequestDelay
	}
	if override.Scraper.Timeout != 0 {
		base.Scraper.Timeout = override.Scraper.Timeout
	}
	if override.Scraper.MaxAttempts != 0 {
		base.Scraper.MaxAttempts = override.Scraper.MaxAttempts
	}

	if override.Google.CredentialsFile != "" {
		base.Google.CredentialsFile = override.Google.CredentialsFile
	}
	if override.Google.ProjectID != "" {
		base.Google.ProjectID = override.Google.ProjectID
	}
	if override.Google.Region != "" {
		base.Google.Region = override.Google.Region
	}

	if override.Generator.Provider != "" {
		base.Generator.Provider = strings.ToLower(override.Generator.Provider)
	}
	if override.Generator.Model != "" {
		base.Generator.Model = override.Generator.Model
	}
	if override.Generator.APIKey != "" {
		base.Generator.APIKey = override.Generator.APIKey
	}
	if override.Generator.Endpoint != "" {
		base.Generator.Endpoint = override.Generator.Endpoint
	}
	if override.Generator.Timeout != 0 {
		base.Generator.Timeout = override.Generator.Timeout
	}

	if override.Summary.MinChars > 0 {
		base.Summary.MinChars = override.Summary.MinChars
	}
	if override.Summary.MaxChars > 0 {
		base.Summary.MaxChars = override.Summary.MaxChars
	}

	if override.Prompts.Summary != "" {
		base.Prompts.Summary = override.Prompts.Summary
	}
	if override.Prompts.Script != "" {
		base.Prompts.Script = override.Prompts.Script
	}

	if override.Speech.Provider != "" {
		base.Speech.Provider = strings.ToLower(override.Speech.Provider)
	}
	if override.Speech.Model != "" {
		base.Speech.Model = override.Speech.Model
	}
	if override.Speech.APIKey != "" {
		base.Speech.APIKey = override.Speech.APIKey
	}
	if override.Speech.Endpoint != "" {
		base.Speech.Endpoint = override.Speech.Endpoint
	}
	if override.Speech.Timeout != 0 {
		base.Speech.Timeout = override.Speech.Timeout
	}
	base.Speech.Voice = mergeVoice(base.Speech.Voice, override.Speech.Voice)

	if override.Output.ArticlesFile != "" {
		base.Output.ArticlesFile = override.Output.ArticlesFile
	}
	if override.Output.SummariesFile != "" {
		base.Output.SummariesFile = override.Output.SummariesFile
	}
	if override.Output.ScriptFile != "" {
		base.Output.ScriptFile = override.Output.ScriptFile
	}
	if override.Output.AudioFile != "" {
		base.Output.AudioFile = override.Output.AudioFile
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Sites) > 0 {
		base.Sites = override.Sites
	}

	return base
}

// mergeVoice overrides only the voice fields that are set. Pitch 0 is the
// default, so any non-zero pitch is an override.
func mergeVoice(base, override domain.VoiceConfig) domain.VoiceConfig {
	if override.LanguageCode != "" {
		base.LanguageCode = override.LanguageCode
	}
	if override.VoiceName != "" {
		base.VoiceName = override.VoiceName
	}
	if override.Gender != "" {
		base.Gender = strings.ToUpper(override.Gender)
	}
	if override.Encoding != "" {
		base.Encoding = strings.ToUpper(override.Encoding)
	}
	if override.SpeakingRate > 0 {
		base.SpeakingRate = override.SpeakingRate
	}
	if override.Pitch != 0 {
		base.Pitch = override.Pitch
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:   LoggingConfig{Level: "info", Format: "text"},
		Database:  DatabaseConfig{DSN: ""},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
		Scraper: ScraperConfig{
			UserAgent:    "NewsNarrator/1.0 (+https://github.com/newsnarrator)",
			RequestDelay: 2 * time.Second,
			Timeout:      20 * time.Second,
			MaxAttempts:  3,
		},
		Google: GoogleConfig{Region: "us-central1"},
		Generator: GeneratorConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  90 * time.Second,
		},
		Summary: SummaryConfig{MinChars: 200, MaxChars: 300},
		Speech: SpeechConfig{
			Provider: "google",
			Model:    "tts-1",
			Timeout:  2 * time.Minute,
			Voice:    domain.DefaultVoice(),
		},
		Output: OutputConfig{
			ArticlesFile:  "news_articles.json",
			SummariesFile: "output_data.json",
			ScriptFile:    "",
			AudioFile:     "podcast_output.mp3",
		},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Sites: []SiteConfig{
			{
				Name:            "techcrunch",
				Scanner:         "selector",
				ListingURL:      "https://techcrunch.com/",
				TitleSelector:   SelectorConfig{Tag: "a", Class: "loop-card__title-link"},
				ContentSelector: SelectorConfig{Tag: "div", Class: "entry-content"},
				MaxArticles:     5,
			},
		},
	}
}
