package newsfeed

import (
	"context"
	"fmt"
	"time"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

var fallbackNews = []models.NewsItem{
	{
		Headline: "Federal Reserve Signals Rate Changes",
		Summary:  "Policy makers weigh the path for interest rates as inflation cools.",
		Source:   "Market Desk",
		Category: "general",
		Related:  "SPY,TLT",
	},
	{
		Headline: "Tech Giant Reports Strong Growth and Profit Increase",
		Summary:  "Quarterly revenue topped estimates on cloud demand.",
		Source:   "Business Wire",
		Category: "general",
		Related:  "MSFT",
	},
	{
		Headline: "Dollar Steadies Against the Yen",
		Summary:  "Currency traders await the next jobs report.",
		Source:   "FX Street",
		Category: "forex",
		Related:  "USDJPY",
	},
	{
		Headline: "Euro Slips as Manufacturing Survey Disappoints",
		Summary:  "A weak survey adds to the downbeat outlook for the bloc.",
		Source:   "FX Street",
		Category: "forex",
		Related:  "EURUSD",
	},
	{
		Headline: "Bitcoin Rallies on ETF Inflows",
		Summary:  "Crypto markets gain as institutional investment picks up.",
		Source:   "Coin Journal",
		Category: "crypto",
		Related:  "BTC-USD",
	},
	{
		Headline: "Exchange Hit by Data Breach",
		Summary:  "Withdrawals paused while the platform investigates.",
		Source:   "Coin Journal",
		Category: "crypto",
	},
	{
		Headline: "Chipmakers Agree to Merger in All-Stock Deal",
		Summary:  "The acquisition awaits regulatory approval.",
		Source:   "Deal Watch",
		Category: "merger",
		Related:  "AMD,XLNX",
	},
	{
		Headline: "Weekly Market Commentary",
		Summary:  "An update on sector trends.",
		Source:   "Research Notes",
		Category: "general",
	},
}

// FallbackSource serves a fixed local list stamped with the current time.
type FallbackSource struct {
	now func() time.Time
}

// NewFallbackSource returns the local fallback list source.
func NewFallbackSource() *FallbackSource {
	return &FallbackSource{now: time.Now}
}

// Fetch returns a fresh copy of the fallback list. It never fails.
func (s *FallbackSource) Fetch(_ context.Context) ([]models.NewsItem, error) {
	now := s.now().UTC()
	items := make([]models.NewsItem, len(fallbackNews))
	for i, item := range fallbackNews {
		item.ID = fmt.Sprintf("fallback-%d", i+1)
		// spread publication times a few minutes apart, newest first
		item.Datetime = now.Add(-time.Duration(i*5) * time.Minute).Unix()
		items[i] = item
	}
	return items, nil
}
