package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"claimdesk/internal/model"
)

var ignoreArticleMeta = cmpopts.IgnoreFields(model.Article{}, "ID", "CreatedAt", "UpdatedAt")

func newTestDB(t *testing.T) *SQL {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func strPtr(s string) *string { return &s }

func TestDriverFor(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want Driver
	}{
		{
			name: "postgres url",
			dsn:  "postgres://u:p@db:5432/news?sslmode=disable",
			want: Driver{Name: "postgres", Dialect: "postgres", Source: "postgres://u:p@db:5432/news?sslmode=disable"},
		},
		{
			name: "postgresql scheme",
			dsn:  "postgresql://db/news",
			want: Driver{Name: "postgres", Dialect: "postgres", Source: "postgresql://db/news"},
		},
		{
			name: "sqlite scheme",
			dsn:  "sqlite://./data/claims.db",
			want: Driver{Name: "sqlite", Dialect: "sqlite3", Source: "./data/claims.db"},
		},
		{
			name: "bare path",
			dsn:  ":memory:",
			want: Driver{Name: "sqlite", Dialect: "sqlite3", Source: ":memory:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DriverFor(tt.dsn)); diff != "" {
				t.Errorf("DriverFor mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpsertArticle(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	tests := []struct {
		name    string
		article model.Article
	}{
		{
			name: "with summary",
			article: model.Article{
				URL:        "https://example.com/a",
				Headline:   "Parliament passes budget",
				Outlet:     "Example News",
				AISummary:  strPtr("The budget passed. Opposition objected."),
				TrustScore: 55,
				PublishOK:  true,
			},
		},
		{
			name: "without summary",
			article: model.Article{
				URL:        "https://example.com/b",
				Headline:   "(no title)",
				Outlet:     "unknown",
				TrustScore: 80,
				PublishOK:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.article
			if err := s.UpsertArticle(ctx, &a); err != nil {
				t.Fatalf("upsert: %v", err)
			}
			if a.ID == "" {
				t.Fatal("expected ID to be assigned")
			}

			got, err := s.GetArticle(ctx, a.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(tt.article, *got, ignoreArticleMeta); diff != "" {
				t.Errorf("GetArticle mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(a.ID, got.ID); diff != "" {
				t.Errorf("ID mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUpsertArticleOverwritesByURL(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	first := model.Article{URL: "https://example.com/x", Headline: "Old", Outlet: "A", TrustScore: 40, PublishOK: true}
	if err := s.UpsertArticle(ctx, &first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := model.Article{
		URL: "https://example.com/x", Headline: "New", Outlet: "B",
		AISummary: strPtr("updated"), TrustScore: 70, PublishOK: true,
	}
	if err := s.UpsertArticle(ctx, &second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if diff := cmp.Diff(first.ID, second.ID); diff != "" {
		t.Errorf("ID changed on overwrite (-want +got):\n%s", diff)
	}

	n, err := s.CountArticles(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if diff := cmp.Diff(1, n); diff != "" {
		t.Errorf("row count mismatch (-want +got):\n%s", diff)
	}

	got, err := s.GetArticleByURL(ctx, "https://example.com/x")
	if err != nil {
		t.Fatalf("get by url: %v", err)
	}
	want := second
	if diff := cmp.Diff(want, *got, ignoreArticleMeta); diff != "" {
		t.Errorf("overwritten article mismatch (-want +got):\n%s", diff)
	}
}

func TestGetArticleNotFound(t *testing.T) {
	s := newTestDB(t)

	_, err := s.GetArticle(context.Background(), "6f1c1a52-8f0e-4c8e-9d55-1f2b3c4d5e6f")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestModeratorKey(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	if _, err := s.ModeratorKey(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before setup, got %v", err)
	}

	for _, key := range []string{"first-key", "rotated-key"} {
		if err := s.SetModeratorKey(ctx, key); err != nil {
			t.Fatalf("set key: %v", err)
		}
		got, err := s.ModeratorKey(ctx)
		if err != nil {
			t.Fatalf("get key: %v", err)
		}
		if diff := cmp.Diff(key, got); diff != "" {
			t.Errorf("ModeratorKey mismatch (-want +got):\n%s", diff)
		}
	}
}

// Ensure the Storage interface is satisfied.
var _ Storage = (*SQL)(nil)
