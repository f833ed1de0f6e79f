package newsfeed

import (
	"context"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

// LatestReader is implemented by the Elasticsearch client.
type LatestReader interface {
	LatestNews(ctx context.Context, limit int, category string) ([]models.NewsItem, error)
}

// ElasticSource serves the most recent news already ingested into the store.
type ElasticSource struct {
	reader   LatestReader
	limit    int
	category string
}

// NewElasticSource reads up to limit items, optionally for one category.
func NewElasticSource(reader LatestReader, limit int, category string) *ElasticSource {
	return &ElasticSource{reader: reader, limit: limit, category: category}
}

// Fetch queries the store.
func (s *ElasticSource) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	return s.reader.LatestNews(ctx, s.limit, s.category)
}
