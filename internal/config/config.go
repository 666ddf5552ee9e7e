package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TOPICBRIDGE_CONFIG"
	openAIAPIKeyEnv  = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	openAIBaseURLEnv = "OPENAI_BASE_URL"
	journalDSNEnv    = "JOURNAL_DSN"
	logLevelEnv      = "LOG_LEVEL"
	feedURLEnv       = "FEED_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Generation GenerationConfig `yaml:"generation"`
	Poller     PollerConfig     `yaml:"poller"`
	Feed       FeedConfig       `yaml:"feed"`
	Journal    JournalConfig    `yaml:"journal"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Profile    ProfileConfig    `yaml:"profile"`
	Catalog    CatalogConfig    `yaml:"catalog"`
}

// LoggingConfig sets the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GenerationConfig defines how to contact the OpenAI-compatible generation API.
type GenerationConfig struct {
	BaseURL      string        `yaml:"baseUrl"`
	Model        string        `yaml:"model"`
	APIKey       string        `yaml:"apiKey"`
	Timeout      time.Duration `yaml:"timeout"`
	Temperature  float32       `yaml:"temperature"`
	SystemPrompt string        `yaml:"systemPrompt"`
}

// PollerConfig controls the background update check and the manual refresh.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	SyncLatency time.Duration `yaml:"syncLatency"`
}

// FeedConfig selects the probe behind the poller. With an empty URL the
// probe reports new content with the configured chance.
type FeedConfig struct {
	URL          string  `yaml:"url"`
	ItemSelector string  `yaml:"itemSelector"`
	Chance       float64 `yaml:"chance"`
}

// JournalConfig describes the Postgres event journal. Empty DSN disables it.
type JournalConfig struct {
	DSN string `yaml:"dsn"`
}

// MetricsConfig sets the Prometheus listen address. Empty disables the endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// ProfileConfig seeds the reader profile.
type ProfileConfig struct {
	Language   string `yaml:"language"`
	Membership string `yaml:"membership"`
}

// CatalogConfig points at an alternative topic catalog.
type CatalogConfig struct {
	Path string `yaml:"path"`
}

// Load reads .env and YAML configuration (if present) and applies environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot read .env: %v", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.Generation.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Generation.Model = v
	}

	if v := os.Getenv(openAIBaseURLEnv); v != "" {
		c.Generation.BaseURL = v
	}

	if v := os.Getenv(journalDSNEnv); v != "" {
		c.Journal.DSN = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}

	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Generation.BaseURL != "" {
		base.Generation.BaseURL = override.Generation.BaseURL
	}
	if override.Generation.Model != "" {
		base.Generation.Model = override.Generation.Model
	}
	if override.Generation.APIKey != "" {
		base.Generation.APIKey = override.Generation.APIKey
	}
	if override.Generation.Timeout > 0 {
		base.Generation.Timeout = override.Generation.Timeout
	}
	if override.Generation.Temperature > 0 {
		base.Generation.Temperature = override.Generation.Temperature
	}
	if override.Generation.SystemPrompt != "" {
		base.Generation.SystemPrompt = override.Generation.SystemPrompt
	}

	if override.Poller.Interval > 0 {
		base.Poller.Interval = override.Poller.Interval
	}
	if override.Poller.SyncLatency > 0 {
		base.Poller.SyncLatency = override.Poller.SyncLatency
	}

	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.ItemSelector != "" {
		base.Feed.ItemSelector = override.Feed.ItemSelector
	}
	if override.Feed.Chance > 0 {
		base.Feed.Chance = override.Feed.Chance
	}

	if override.Journal.DSN != "" {
		base.Journal = override.Journal
	}

	if override.Metrics.Addr != "" {
		base.Metrics = override.Metrics
	}

	if override.Profile.Language != "" {
		base.Profile.Language = strings.ToLower(override.Profile.Language)
	}
	if override.Profile.Membership != "" {
		base.Profile.Membership = override.Profile.Membership
	}

	if override.Catalog.Path != "" {
		base.Catalog = override.Catalog
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Generation: GenerationConfig{
			BaseURL:      "https://api.openai.com/v1",
			Model:        "gpt-4o-mini",
			Timeout:      60 * time.Second,
			Temperature:  0.4,
			SystemPrompt: "You are a neutral news analyst who helps readers step outside their information cocoon.",
		},
		Poller: PollerConfig{Interval: time.Minute, SyncLatency: 1500 * time.Millisecond},
		Feed:   FeedConfig{ItemSelector: "article a", Chance: 0.7},
		Profile: ProfileConfig{
			Language:   "en",
			Membership: "Free",
		},
	}
}
