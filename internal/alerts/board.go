package alerts

import (
	"slices"
	"sync"
	"time"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

// Board is the in-memory working set shown to users: the latest scored news
// and the alerts detected over it. Each refresh replaces the whole set;
// dismissing removes an alert until the next refresh.
type Board struct {
	mu          sync.RWMutex
	news        []models.ScoredNews
	alerts      []models.MarketAlert
	refreshedAt time.Time
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

// Replace swaps in a freshly classified batch. Last write wins.
func (b *Board) Replace(news []models.ScoredNews, alerts []models.MarketAlert, at time.Time) {
	news = slices.Clone(news)
	alerts = slices.Clone(alerts)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.news = news
	b.alerts = alerts
	b.refreshedAt = at
}

// Alerts returns up to limit alerts in display order.
func (b *Board) Alerts(limit int) []models.MarketAlert {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Top(b.alerts, limit)
}

// News returns a copy of the scored news.
func (b *Board) News() []models.ScoredNews {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.news)
}

// Dismiss removes the alert with id. It reports whether anything was removed.
func (b *Board) Dismiss(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := slices.IndexFunc(b.alerts, func(a models.MarketAlert) bool { return a.ID == id })
	if idx < 0 {
		return false
	}
	b.alerts = slices.Delete(b.alerts, idx, idx+1)
	return true
}

// RefreshedAt is the time of the last Replace; zero before the first one.
func (b *Board) RefreshedAt() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.refreshedAt
}
