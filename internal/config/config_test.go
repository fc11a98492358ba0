package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"claimdesk/internal/llm"
)

var envKeys = []string{
	"INGEST_SECRET", "DATABASE_URL", "DATABASE_KEY", "RSS_FEEDS",
	"LLM_PROVIDER", "LLM_API_KEY", "OPENAI_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "LLM_TIMEOUT",
	"FEED_TIMEOUT", "MAX_ENTRIES_PER_FEED", "INGEST_INTERVAL",
	"LISTEN_ADDR", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.hcl")
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "defaults applied",
			env:  map[string]string{},
			want: &Config{
				LLMProvider:       "openai",
				LLMModel:          "gpt-4o-mini",
				LLMTimeout:        30 * time.Second,
				FeedTimeout:       30 * time.Second,
				MaxEntriesPerFeed: 30,
				ListenAddr:        ":8080",
				LogLevel:          "info",
			},
		},
		{
			name: "all values set",
			env: map[string]string{
				"INGEST_SECRET":        "s3cret",
				"DATABASE_URL":         "postgres://postgres@db.example:5432/app",
				"DATABASE_KEY":         "pw",
				"RSS_FEEDS":            "https://a.example/rss,https://b.example/rss",
				"LLM_PROVIDER":         "ollama",
				"LLM_API_KEY":          "k",
				"LLM_BASE_URL":         "http://localhost:11434",
				"LLM_MODEL":            "llama3.1",
				"LLM_TIMEOUT":          "1m",
				"FEED_TIMEOUT":         "10s",
				"MAX_ENTRIES_PER_FEED": "5",
				"INGEST_INTERVAL":      "15m",
				"LISTEN_ADDR":          "127.0.0.1:9000",
				"LOG_LEVEL":            "debug",
				"TELEGRAM_BOT_TOKEN":   "tok",
				"TELEGRAM_CHAT_ID":     "-1001234",
			},
			want: &Config{
				IngestSecret:      "s3cret",
				DatabaseURL:       "postgres://postgres@db.example:5432/app",
				DatabaseKey:       "pw",
				RSSFeeds:          "https://a.example/rss,https://b.example/rss",
				LLMProvider:       "ollama",
				LLMAPIKey:         "k",
				LLMBaseURL:        "http://localhost:11434",
				LLMModel:          "llama3.1",
				LLMTimeout:        time.Minute,
				FeedTimeout:       10 * time.Second,
				MaxEntriesPerFeed: 5,
				IngestInterval:    15 * time.Minute,
				ListenAddr:        "127.0.0.1:9000",
				LogLevel:          "debug",
				TelegramBotToken:  "tok",
				TelegramChatID:    -1001234,
			},
		},
		{
			name:    "invalid max entries",
			env:     map[string]string{"MAX_ENTRIES_PER_FEED": "0"},
			wantErr: true,
		},
		{
			name:    "negative interval",
			env:     map[string]string{"INGEST_INTERVAL": "-1m"},
			wantErr: true,
		},
		{
			name:    "unparsable duration",
			env:     map[string]string{"LLM_TIMEOUT": "soon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load(missingFile(t))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadHCLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.hcl")
	content := `
ingest_secret = "from-file"
rss_feeds = "https://file.example/rss"
ingest_interval = "5m"
log_level = "warn"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LOG_LEVEL", "error")

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if diff := cmp.Diff("from-file", got.IngestSecret); diff != "" {
		t.Errorf("secret mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"https://file.example/rss"}, got.Feeds()); diff != "" {
		t.Errorf("feeds mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(5*time.Minute, got.IngestInterval); diff != "" {
		t.Errorf("interval mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("error", got.LogLevel); diff != "" {
		t.Errorf("env should override file (-want +got):\n%s", diff)
	}
}

func TestFeeds(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: []string{}},
		{name: "single", raw: "https://a.example/rss", want: []string{"https://a.example/rss"}},
		{name: "spaces and blanks", raw: " https://a.example/rss , ,https://b.example/rss, ", want: []string{"https://a.example/rss", "https://b.example/rss"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{RSSFeeds: tt.raw}
			if diff := cmp.Diff(tt.want, cfg.Feeds()); diff != "" {
				t.Errorf("Feeds() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStoreDSN(t *testing.T) {
	tests := []struct {
		name string
		url  string
		key  string
		want string
	}{
		{name: "no key", url: "postgres://u@db:5432/app", want: "postgres://u@db:5432/app"},
		{name: "key injected", url: "postgres://u@db:5432/app?sslmode=require", key: "p@ss", want: "postgres://u:p%40ss@db:5432/app?sslmode=require"},
		{name: "default user", url: "postgresql://db:5432/app", key: "pw", want: "postgresql://postgres:pw@db:5432/app"},
		{name: "existing password kept", url: "postgres://u:orig@db/app", key: "pw", want: "postgres://u:orig@db/app"},
		{name: "sqlite untouched", url: "file:claims.db", key: "pw", want: "file:claims.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DatabaseURL: tt.url, DatabaseKey: tt.key}
			if diff := cmp.Diff(tt.want, cfg.StoreDSN()); diff != "" {
				t.Errorf("StoreDSN() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLLM(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want llm.Config
	}{
		{
			name: "dedicated key wins",
			cfg:  Config{LLMProvider: "openai", LLMAPIKey: "a", OpenAIAPIKey: "b", LLMModel: "m", LLMTimeout: time.Second},
			want: llm.Config{Provider: "openai", APIKey: "a", Model: "m", Timeout: time.Second},
		},
		{
			name: "openai key fallback",
			cfg:  Config{LLMProvider: "openai", OpenAIAPIKey: "b", LLMModel: "m"},
			want: llm.Config{Provider: "openai", APIKey: "b", Model: "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.cfg.LLM()); diff != "" {
				t.Errorf("LLM() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
