package newsfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

// FinnhubClient fetches market news from a Finnhub-compatible REST API.
type FinnhubClient struct {
	baseURL  string
	token    string
	category string
	client   *http.Client
}

// NewFinnhubClient builds a client for baseURL (without trailing /news).
func NewFinnhubClient(baseURL, token, category string, timeout time.Duration) *FinnhubClient {
	if category == "" {
		category = "general"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FinnhubClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		category: category,
		client:   &http.Client{Timeout: timeout},
	}
}

type finnhubItem struct {
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	ID       int64  `json:"id"`
	Image    string `json:"image"`
	Related  string `json:"related"`
	Source   string `json:"source"`
	Summary  string `json:"summary"`
	URL      string `json:"url"`
}

// Fetch requests the latest news for the configured category.
func (c *FinnhubClient) Fetch(ctx context.Context) ([]models.NewsItem, error) {
	q := url.Values{}
	q.Set("category", c.category)
	q.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/news?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch news: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw []finnhubItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode news: %w", err)
	}

	items := make([]models.NewsItem, 0, len(raw))
	for _, r := range raw {
		id := ""
		if r.ID != 0 {
			id = strconv.FormatInt(r.ID, 10)
		}
		items = append(items, models.NewsItem{
			ID:       id,
			Headline: r.Headline,
			Summary:  r.Summary,
			Source:   r.Source,
			Category: r.Category,
			Datetime: r.Datetime,
			Related:  r.Related,
			URL:      r.URL,
			Image:    r.Image,
		})
	}
	return items, nil
}
