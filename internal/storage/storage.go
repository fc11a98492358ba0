// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"claimdesk/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	UpsertArticle(ctx context.Context, article *model.Article) error
	GetArticle(ctx context.Context, id string) (*model.Article, error)
	CountArticles(ctx context.Context) (int, error)

	ModeratorKey(ctx context.Context) (string, error)
	SetModeratorKey(ctx context.Context, key string) error

	Close() error
}
