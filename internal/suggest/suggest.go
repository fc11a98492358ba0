// Package suggest answers moderator requests for claim suggestions on a stored article.
package suggest

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"claimdesk/internal/apperr"
	"claimdesk/internal/claims"
	"claimdesk/internal/model"
	"claimdesk/internal/storage"
)

// Source tells which path produced the suggestions.
type Source string

// Suggestion sources.
const (
	SourceLLM     Source = "llm"
	SourceSummary Source = "summary"
	SourceGeneric Source = "generic"
)

// Result is the answer for one article.
type Result struct {
	ArticleID   string                  `json:"article_id"`
	Source      Source                  `json:"source"`
	Suggestions []model.ClaimSuggestion `json:"suggestions"`
}

// Store is the read side of the article store used here.
type Store interface {
	ModeratorKey(ctx context.Context) (string, error)
	GetArticle(ctx context.Context, id string) (*model.Article, error)
}

// Extractor proposes claim candidates for an article.
type Extractor interface {
	Extract(ctx context.Context, a model.Article) ([]claims.Candidate, error)
}

// Service produces validated suggestions.
type Service struct {
	store     Store
	extractor Extractor
	log       *slog.Logger
}

// New creates a Service. extractor may be nil when no generation provider is configured.
func New(store Store, extractor Extractor, log *slog.Logger) *Service {
	return &Service{store: store, extractor: extractor, log: log}
}

// Suggest checks key against the stored moderator key and returns up to
// claims.MaxSuggestions suggestions for the article articleID. Both inputs
// are trimmed; the id is matched case-insensitively.
func (s *Service) Suggest(ctx context.Context, key, articleID string) (*Result, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperr.Validation("missing key")
	}
	id, ok := parseUUID(strings.TrimSpace(articleID))
	if !ok {
		return nil, apperr.Validation("articleId must be a UUID")
	}
	if s.store == nil {
		return nil, apperr.Validation("article store is not configured")
	}

	if err := s.authorize(ctx, key); err != nil {
		return nil, err
	}

	article, err := s.store.GetArticle(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("article not found")
	}
	if err != nil {
		return nil, apperr.Internal("load article", err)
	}

	cands, source, err := s.candidates(ctx, *article)
	if err != nil {
		return nil, err
	}

	res := &Result{
		ArticleID:   article.ID,
		Source:      source,
		Suggestions: claims.Validate(cands),
	}
	s.log.Info("claims suggested", "article_id", article.ID, "source", source, "count", len(res.Suggestions))
	return res, nil
}

func (s *Service) authorize(ctx context.Context, key string) error {
	modKey, err := s.store.ModeratorKey(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return apperr.Auth("unauthorized")
	}
	if err != nil {
		return apperr.Internal("load moderator key", err)
	}
	if modKey == "" || subtle.ConstantTimeCompare([]byte(modKey), []byte(key)) != 1 {
		return apperr.Auth("unauthorized")
	}
	return nil
}

// candidates walks the fallback chain: generation, then summary sentences,
// then the generic pair.
func (s *Service) candidates(ctx context.Context, a model.Article) ([]claims.Candidate, Source, error) {
	if s.extractor != nil {
		cands, err := s.extractor.Extract(ctx, a)
		if err != nil {
			return nil, "", err
		}
		if len(cands) > 0 {
			return cands, SourceLLM, nil
		}
	}

	if cands := claims.FromSummary(a.Summary()); len(cands) > 0 {
		return cands, SourceSummary, nil
	}
	return claims.Generic(a.Headline), SourceGeneric, nil
}

// parseUUID accepts only the dashed 36-character form and returns it in the
// lowercase form ids are stored in.
func parseUUID(s string) (string, bool) {
	if len(s) != 36 {
		return "", false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}
