// Package fetcher handles RSS/Atom feed downloading and parsing.
package fetcher

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/mmcdole/gofeed"
	"github.com/samber/lo"

	"claimdesk/internal/model"
)

const maxFeedBytes = 5 * 1024 * 1024

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher downloads and parses feeds.
type Fetcher struct {
	client  HTTPClient
	timeout time.Duration
	strip   *bluemonday.Policy
}

// New creates a Fetcher with the given HTTP client and a 30 second per-feed timeout.
func New(client HTTPClient) *Fetcher {
	return &Fetcher{
		client:  client,
		timeout: 30 * time.Second,
		strip:   bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true),
	}
}

// SetTimeout overrides the per-feed timeout. Non-positive values are ignored.
func (f *Fetcher) SetTimeout(d time.Duration) {
	if d > 0 {
		f.timeout = d
	}
}

// Fetch downloads and parses a feed from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "claimdesk/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

// FetchFeed fetches url and converts the parsed feed into raw entries in document order.
func (f *Fetcher) FetchFeed(ctx context.Context, url string) (*model.Feed, error) {
	feed, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return &model.Feed{
		Title: feed.Title,
		Entries: lo.Map(feed.Items, func(item *gofeed.Item, _ int) model.FeedEntry {
			return f.entry(item)
		}),
	}, nil
}

// entry maps a parsed item. Content is the full body, falling back to the
// description; ContentSnippet is that text with markup removed.
func (f *Fetcher) entry(item *gofeed.Item) model.FeedEntry {
	content := item.Content
	if strings.TrimSpace(content) == "" {
		content = item.Description
	}
	return model.FeedEntry{
		Title:          item.Title,
		Link:           item.Link,
		GUID:           item.GUID,
		Content:        content,
		ContentSnippet: f.Snippet(content),
	}
}

// Snippet strips HTML from s, decodes entities and collapses whitespace.
func (f *Fetcher) Snippet(s string) string {
	text := html.UnescapeString(f.strip.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
