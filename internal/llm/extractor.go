package llm

import (
	"context"
	"log/slog"

	"claimdesk/internal/claims"
	"claimdesk/internal/model"
)

// Extractor turns an article into claim candidates with a Generator.
type Extractor struct {
	gen Generator
	log *slog.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor(gen Generator, log *slog.Logger) *Extractor {
	return &Extractor{gen: gen, log: log}
}

// Extract asks the generator for claims about a. Generation failures are
// returned; unusable output yields an empty list and no error.
func (e *Extractor) Extract(ctx context.Context, a model.Article) ([]claims.Candidate, error) {
	text, err := e.gen.Generate(ctx, BuildMessages(a))
	if err != nil {
		return nil, err
	}

	v, ok := ExtractJSON(text)
	if !ok {
		e.log.Warn("no JSON in model output", "provider", e.gen.Name(), "article_id", a.ID)
		return nil, nil
	}
	cands, ok := claims.FromJSON(v)
	if !ok {
		e.log.Warn("no claim array in model output", "provider", e.gen.Name(), "article_id", a.ID)
		return nil, nil
	}

	if len(cands) > claims.MaxSuggestions {
		cands = cands[:claims.MaxSuggestions]
	}
	return cands, nil
}
