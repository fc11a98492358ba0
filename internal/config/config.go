// Package config handles application configuration from environment variables
// and optional HCL files.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfighcl"
	"github.com/samber/lo"

	"claimdesk/internal/llm"
)

// DefaultFiles are read when Load is called without files. Missing files are skipped.
var DefaultFiles = []string{"./config.hcl", "./config.local.hcl"}

// Config holds the application configuration.
type Config struct {
	IngestSecret string `hcl:"ingest_secret" env:"INGEST_SECRET"`
	DatabaseURL  string `hcl:"database_url" env:"DATABASE_URL"`
	DatabaseKey  string `hcl:"database_key" env:"DATABASE_KEY"`
	RSSFeeds     string `hcl:"rss_feeds" env:"RSS_FEEDS"`

	LLMProvider  string        `hcl:"llm_provider" env:"LLM_PROVIDER" default:"openai"`
	LLMAPIKey    string        `hcl:"llm_api_key" env:"LLM_API_KEY"`
	OpenAIAPIKey string        `hcl:"openai_api_key" env:"OPENAI_API_KEY"`
	LLMBaseURL   string        `hcl:"llm_base_url" env:"LLM_BASE_URL"`
	LLMModel     string        `hcl:"llm_model" env:"LLM_MODEL" default:"gpt-4o-mini"`
	LLMTimeout   time.Duration `hcl:"llm_timeout" env:"LLM_TIMEOUT" default:"30s"`

	FeedTimeout       time.Duration `hcl:"feed_timeout" env:"FEED_TIMEOUT" default:"30s"`
	MaxEntriesPerFeed int           `hcl:"max_entries_per_feed" env:"MAX_ENTRIES_PER_FEED" default:"30"`
	IngestInterval    time.Duration `hcl:"ingest_interval" env:"INGEST_INTERVAL"`

	ListenAddr string `hcl:"listen_addr" env:"LISTEN_ADDR" default:":8080"`
	LogLevel   string `hcl:"log_level" env:"LOG_LEVEL" default:"info"`

	TelegramBotToken string `hcl:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   int64  `hcl:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`
}

// Load reads files (DefaultFiles when none are given), then environment
// variables, which take precedence.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = DefaultFiles
	}

	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags: true,
		Files:     files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".hcl": aconfighcl.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.MaxEntriesPerFeed <= 0 {
		return nil, fmt.Errorf("MAX_ENTRIES_PER_FEED must be positive, got %d", cfg.MaxEntriesPerFeed)
	}
	if cfg.IngestInterval < 0 {
		return nil, fmt.Errorf("INGEST_INTERVAL must not be negative, got %s", cfg.IngestInterval)
	}
	return &cfg, nil
}

// Feeds returns the configured feed sources in order, without blanks.
func (c *Config) Feeds() []string {
	feeds := lo.Map(strings.Split(c.RSSFeeds, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Compact(feeds)
}

// StoreDSN returns the database URL with DATABASE_KEY applied as the
// password of a postgres URL that carries none.
func (c *Config) StoreDSN() string {
	if c.DatabaseKey == "" || !strings.HasPrefix(c.DatabaseURL, "postgres") {
		return c.DatabaseURL
	}
	u, err := url.Parse(c.DatabaseURL)
	if err != nil {
		return c.DatabaseURL
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		return c.DatabaseURL
	}

	user := "postgres"
	if u.User != nil && u.User.Username() != "" {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, c.DatabaseKey)
	return u.String()
}

// LLM returns the generation provider settings.
func (c *Config) LLM() llm.Config {
	return llm.Config{
		Provider: c.LLMProvider,
		APIKey:   lo.CoalesceOrEmpty(c.LLMAPIKey, c.OpenAIAPIKey),
		BaseURL:  c.LLMBaseURL,
		Model:    c.LLMModel,
		Timeout:  c.LLMTimeout,
	}
}
