package newsfeed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/processing"
)

// RSSSource reads one or more RSS/Atom feeds.
type RSSSource struct {
	feeds    []string
	category string
	client   *http.Client
}

// NewRSSSource builds a source over feeds. Items are tagged with category.
func NewRSSSource(feeds []string, category string, timeout time.Duration) *RSSSource {
	if category == "" {
		category = "general"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RSSSource{feeds: feeds, category: category, client: &http.Client{Timeout: timeout}}
}

// Fetch reads every feed in order. A failing feed is skipped; the call only
// fails when every feed failed.
func (s *RSSSource) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	var (
		items []models.NewsItem
		errs  []error
	)
	for _, feedURL := range s.feeds {
		got, err := s.fetchFeed(ctx, feedURL)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, got...)
	}

	if len(errs) > 0 && len(errs) == len(s.feeds) {
		return nil, errors.Join(errs...)
	}
	return items, nil
}

func (s *RSSSource) fetchFeed(ctx context.Context, feedURL string) ([]models.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request %s: %w", feedURL, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed %s: status %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]models.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		item := models.NewsItem{
			ID:       it.GUID,
			Headline: processing.CleanText(it.Title),
			Summary:  processing.CleanText(it.Description),
			Source:   feed.Title,
			Category: s.category,
			URL:      it.Link,
		}
		if it.PublishedParsed != nil {
			item.Datetime = it.PublishedParsed.Unix()
		}
		if it.Image != nil {
			item.Image = it.Image.URL
		}
		items = append(items, item)
	}
	return items, nil
}
