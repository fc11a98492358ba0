package ingest

import (
	"math/rand/v2"
	"strings"

	"github.com/samber/lo"

	"claimdesk/internal/model"
)

const (
	// MaxSummaryLen bounds ai_summary, in characters.
	MaxSummaryLen = 600

	defaultHeadline = "(no title)"
	defaultOutlet   = "unknown"

	minTrustScore = 40
	maxTrustScore = 80
)

// TrustScorer yields the trust score for a newly ingested article.
type TrustScorer func() int

// RandomTrustScore is the placeholder policy: a uniform integer in [40, 80].
func RandomTrustScore() int {
	return minTrustScore + rand.IntN(maxTrustScore-minTrustScore+1)
}

// Normalize turns a raw feed entry into an article ready for upsert.
// It reports false when the entry has neither a link nor a guid.
func Normalize(entry model.FeedEntry, feedTitle string, score TrustScorer) (model.Article, bool) {
	url := strings.TrimSpace(entry.Link)
	if url == "" {
		url = strings.TrimSpace(entry.GUID)
	}
	if url == "" {
		return model.Article{}, false
	}

	headline := entry.Title
	if headline == "" {
		headline = defaultHeadline
	}

	outlet := strings.TrimSpace(feedTitle)
	if outlet == "" {
		outlet = defaultOutlet
	}

	return model.Article{
		URL:        url,
		Headline:   headline,
		Outlet:     outlet,
		AISummary:  summaryOf(entry),
		TrustScore: score(),
		PublishOK:  true,
	}, true
}

func summaryOf(entry model.FeedEntry) *string {
	text := entry.ContentSnippet
	if text == "" {
		text = entry.Content
	}
	text = lo.Substring(text, 0, MaxSummaryLen)
	if text == "" {
		return nil
	}
	return &text
}
