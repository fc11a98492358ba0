// Package ingest pulls configured feeds into the article store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"claimdesk/internal/apperr"
	"claimdesk/internal/model"
)

// DefaultMaxEntries is how many entries of each feed are considered per run.
const DefaultMaxEntries = 30

// ArticleStore persists normalized articles keyed by URL.
type ArticleStore interface {
	UpsertArticle(ctx context.Context, article *model.Article) error
}

// FeedSource fetches a feed by URL.
type FeedSource interface {
	FetchFeed(ctx context.Context, url string) (*model.Feed, error)
}

// Service runs ingestion over a list of feed sources.
type Service struct {
	store      ArticleStore
	feeds      FeedSource
	score      TrustScorer
	maxEntries int
	log        *slog.Logger
}

// New creates a Service. store may be nil when no database is configured;
// Run then fails with a validation error.
func New(store ArticleStore, feeds FeedSource, log *slog.Logger) *Service {
	return &Service{
		store:      store,
		feeds:      feeds,
		score:      RandomTrustScore,
		maxEntries: DefaultMaxEntries,
		log:        log,
	}
}

// SetTrustScorer replaces the trust score policy.
func (s *Service) SetTrustScorer(score TrustScorer) {
	s.score = score
}

// SetMaxEntries overrides the per-feed entry bound. Non-positive values are ignored.
func (s *Service) SetMaxEntries(n int) {
	if n > 0 {
		s.maxEntries = n
	}
}

// Run ingests every source in order. Upsert failures are logged and skipped.
// A fetch failure aborts the run and is returned with the counters reached so
// far; articles already written stay written.
func (s *Service) Run(ctx context.Context, sources []string) (model.IngestResult, error) {
	var res model.IngestResult

	if s.store == nil {
		return res, apperr.Validation("store is not configured")
	}
	if len(sources) == 0 {
		return res, apperr.Validation("no feed sources configured")
	}

	for _, src := range sources {
		if err := s.ingestFeed(ctx, src, &res); err != nil {
			return res, err
		}
	}

	s.log.Info("ingestion finished", "sources", len(sources), "scanned", res.Scanned, "inserted", res.Inserted)
	return res, nil
}

func (s *Service) ingestFeed(ctx context.Context, src string, res *model.IngestResult) error {
	s.log.Debug("fetching feed", "url", src)

	feed, err := s.feeds.FetchFeed(ctx, src)
	if err != nil {
		s.log.Error("fetch feed", "url", src, "error", err)
		return apperr.Internal(fmt.Sprintf("fetch feed %s", src), err)
	}

	entries := feed.Entries
	if len(entries) > s.maxEntries {
		entries = entries[:s.maxEntries]
	}

	inserted := 0
	for _, entry := range entries {
		res.Scanned++

		article, ok := Normalize(entry, feed.Title, s.score)
		if !ok {
			s.log.Debug("skip entry without link or guid", "feed", src, "title", entry.Title)
			continue
		}

		if err := s.store.UpsertArticle(ctx, &article); err != nil {
			s.log.Warn("upsert article", "url", article.URL, "error", err)
			continue
		}
		inserted++
	}
	res.Inserted += inserted

	s.log.Debug("feed ingested", "url", src, "entries", len(entries), "inserted", inserted)
	return nil
}
