// Package model defines the domain types used across the application.
package model

import "time"

// Article is a news item stored in the shared article store. URL is the unique key.
type Article struct {
	ID         string
	URL        string
	Headline   string
	Outlet     string
	AISummary  *string
	TrustScore int
	PublishOK  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Summary returns the article summary or an empty string when none is stored.
func (a Article) Summary() string {
	if a.AISummary == nil {
		return ""
	}
	return *a.AISummary
}

// Verdict is the categorical judgment attached to a claim.
type Verdict string

// Supported verdicts.
const (
	VerdictSupported    Verdict = "supported"
	VerdictPartial      Verdict = "partial"
	VerdictNotSupported Verdict = "not_supported"
	VerdictUnverifiable Verdict = "unverifiable"
)

// Verdicts lists every allowed verdict in display order.
var Verdicts = []Verdict{VerdictSupported, VerdictPartial, VerdictNotSupported, VerdictUnverifiable}

// ClaimSuggestion is a sanitized claim proposed to a moderator. It is never persisted.
type ClaimSuggestion struct {
	ClaimText   string  `json:"claim_text"`
	Verdict     Verdict `json:"verdict"`
	EvidenceURL string  `json:"evidence_url"`
}

// FeedEntry is a single raw entry as returned by a feed source.
type FeedEntry struct {
	Title          string
	Link           string
	GUID           string
	Content        string
	ContentSnippet string
}

// Feed is a fetched feed: its title and entries in document order.
type Feed struct {
	Title   string
	Entries []FeedEntry
}

// IngestResult holds the counters of one ingestion run.
type IngestResult struct {
	Scanned  int `json:"scanned"`
	Inserted int `json:"inserted"`
}
