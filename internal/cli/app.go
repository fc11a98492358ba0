package cli

import (
	"fmt"
	"log/slog"
	"net/http"

	"claimdesk/internal/bot"
	"claimdesk/internal/config"
	"claimdesk/internal/fetcher"
	"claimdesk/internal/ingest"
	"claimdesk/internal/llm"
	"claimdesk/internal/storage"
	"claimdesk/internal/suggest"
)

// app holds the services built from one configuration.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	store    *storage.SQL
	ingest   *ingest.Service
	suggest  *suggest.Service
	reporter *bot.Reporter
}

// newApp builds every service. Without DATABASE_URL the services are still
// created and report the missing store as a validation error per request.
func newApp(cfg *config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, log: log}

	var (
		articles ingest.ArticleStore
		reader   suggest.Store
	)
	if dsn := cfg.StoreDSN(); dsn != "" {
		store, err := storage.Open(dsn)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		a.store = store
		articles, reader = store, store
	} else {
		log.Warn("DATABASE_URL is not set; ingestion and suggestions are disabled")
	}

	f := fetcher.New(&http.Client{})
	f.SetTimeout(cfg.FeedTimeout)
	a.ingest = ingest.New(articles, f, log)
	a.ingest.SetMaxEntries(cfg.MaxEntriesPerFeed)

	gen, err := llm.NewGenerator(cfg.LLM())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create generator: %w", err)
	}
	var extractor suggest.Extractor
	if gen != nil {
		extractor = llm.NewExtractor(gen, log)
		log.Info("claim generation enabled", "provider", gen.Name(), "model", cfg.LLMModel)
	}
	a.suggest = suggest.New(reader, extractor, log)

	a.reporter, err = bot.New(cfg.TelegramBotToken, cfg.TelegramChatID, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create reporter: %w", err)
	}

	return a, nil
}

// Close releases the store.
func (a *app) Close() {
	if a.store != nil {
		_ = a.store.Close()
	}
}
