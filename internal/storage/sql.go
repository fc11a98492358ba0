package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // PostgreSQL driver registration.
	_ "modernc.org/sqlite" // SQLite driver registration.

	"claimdesk/internal/model"
	"claimdesk/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQL implements Storage on top of SQLite or PostgreSQL.
type SQL struct {
	db *sqlx.DB
}

// Driver describes how a DSN is opened and migrated.
type Driver struct {
	Name    string // database/sql driver name
	Dialect string // goose dialect
	Source  string // DSN handed to the driver
}

// DriverFor picks the driver from the DSN scheme. postgres:// and postgresql://
// select lib/pq; sqlite:// or a bare path selects modernc sqlite.
func DriverFor(dsn string) Driver {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return Driver{Name: "postgres", Dialect: "postgres", Source: dsn}
	case strings.HasPrefix(dsn, "sqlite://"):
		return Driver{Name: "sqlite", Dialect: "sqlite3", Source: strings.TrimPrefix(dsn, "sqlite://")}
	default:
		return Driver{Name: "sqlite", Dialect: "sqlite3", Source: dsn}
	}
}

// Open connects to the database at dsn and runs pending migrations.
func Open(dsn string) (*SQL, error) {
	drv := DriverFor(dsn)

	db, err := sqlx.Open(drv.Name, drv.Source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", drv.Name, err)
	}

	if drv.Name == "sqlite" {
		// A single connection keeps :memory: databases shared across queries.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := migrations.Run(db.DB, drv.Dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQL{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQL) Close() error {
	return s.db.Close()
}

// UpsertArticle inserts the article or overwrites the row sharing its URL.
// The row keeps its original ID and CreatedAt; both are written back to article.
func (s *SQL) UpsertArticle(ctx context.Context, article *model.Article) error {
	now := time.Now().UTC().Format(timeLayout)
	var id, created string
	err := s.db.QueryRowxContext(ctx, s.db.Rebind(
		`INSERT INTO articles (id, url, headline, outlet, ai_summary, trust_score, publish_ok, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (url) DO UPDATE SET
		     headline = excluded.headline,
		     outlet = excluded.outlet,
		     ai_summary = excluded.ai_summary,
		     trust_score = excluded.trust_score,
		     publish_ok = excluded.publish_ok,
		     updated_at = excluded.updated_at
		 RETURNING id, created_at`),
		uuid.NewString(), article.URL, article.Headline, article.Outlet, article.AISummary,
		article.TrustScore, article.PublishOK, now, now,
	).Scan(&id, &created)
	if err != nil {
		return fmt.Errorf("upsert article: %w", err)
	}
	article.ID = id
	article.CreatedAt, _ = time.Parse(timeLayout, created)
	article.UpdatedAt, _ = time.Parse(timeLayout, now)
	return nil
}

// GetArticle returns a single article by its ID.
func (s *SQL) GetArticle(ctx context.Context, id string) (*model.Article, error) {
	return s.getArticle(ctx, "id", id)
}

// GetArticleByURL returns a single article by its URL.
func (s *SQL) GetArticleByURL(ctx context.Context, url string) (*model.Article, error) {
	return s.getArticle(ctx, "url", url)
}

func (s *SQL) getArticle(ctx context.Context, column, value string) (*model.Article, error) {
	var row articleRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(
		`SELECT id, url, headline, outlet, ai_summary, trust_score, publish_ok, created_at, updated_at
		 FROM articles WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return row.toModel(), nil
}

// CountArticles returns the number of stored articles.
func (s *SQL) CountArticles(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM articles`); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

// ModeratorKey returns the shared moderator secret from the single admin_config row.
func (s *SQL) ModeratorKey(ctx context.Context) (string, error) {
	var key string
	err := s.db.GetContext(ctx, &key, `SELECT mod_key FROM admin_config ORDER BY id LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get moderator key: %w", err)
	}
	return key, nil
}

// SetModeratorKey creates or replaces the admin_config row.
func (s *SQL) SetModeratorKey(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(
		`INSERT INTO admin_config (id, mod_key) VALUES (1, ?)
		 ON CONFLICT (id) DO UPDATE SET mod_key = excluded.mod_key`), key)
	if err != nil {
		return fmt.Errorf("set moderator key: %w", err)
	}
	return nil
}

type articleRow struct {
	ID         string         `db:"id"`
	URL        string         `db:"url"`
	Headline   string         `db:"headline"`
	Outlet     string         `db:"outlet"`
	AISummary  sql.NullString `db:"ai_summary"`
	TrustScore int            `db:"trust_score"`
	PublishOK  bool           `db:"publish_ok"`
	CreatedAt  string         `db:"created_at"`
	UpdatedAt  string         `db:"updated_at"`
}

func (r articleRow) toModel() *model.Article {
	a := &model.Article{
		ID:         r.ID,
		URL:        r.URL,
		Headline:   r.Headline,
		Outlet:     r.Outlet,
		TrustScore: r.TrustScore,
		PublishOK:  r.PublishOK,
	}
	if r.AISummary.Valid {
		v := r.AISummary.String
		a.AISummary = &v
	}
	a.CreatedAt, _ = time.Parse(timeLayout, r.CreatedAt)
	a.UpdatedAt, _ = time.Parse(timeLayout, r.UpdatedAt)
	return a
}
