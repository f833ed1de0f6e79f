// Package newsfeed supplies news batches to the classifier: a remote news
// API, RSS feeds, the Elasticsearch store, and a local fallback list.
package newsfeed

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

// ErrEmptyFeed is returned when a source answered but had no items.
var ErrEmptyFeed = errors.New("news feed returned no items")

// Source produces a batch of news items.
type Source interface {
	Fetch(ctx context.Context) ([]models.NewsItem, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]models.NewsItem, error)

// Fetch calls f.
func (f SourceFunc) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	return f(ctx)
}

type fallbackSource struct {
	primary  Source
	fallback Source
	log      *slog.Logger
}

// WithFallback returns a Source that serves primary and degrades to fallback
// when primary fails or comes back empty. Callers never see primary's error.
func WithFallback(primary, fallback Source, log *slog.Logger) Source {
	return &fallbackSource{primary: primary, fallback: fallback, log: log}
}

func (s *fallbackSource) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	items, err := s.primary.Fetch(ctx)
	if err == nil && len(items) == 0 {
		err = ErrEmptyFeed
	}
	if err == nil {
		return items, nil
	}

	if s.log != nil {
		s.log.Warn("news source failed, using fallback", slog.Any("err", err))
	}
	return s.fallback.Fetch(ctx)
}
