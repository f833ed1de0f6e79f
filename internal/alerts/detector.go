package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/processing"
)

const (
	defaultTitle    = "Market Alert"
	defaultSummary  = "High-impact market news detected"
	defaultCategory = "general"
	defaultSource   = "Unknown"
)

// Detector turns news batches into sorted market alerts. The zero value is
// not usable; use NewDetector. A Detector holds no mutable state and may be
// shared between goroutines.
type Detector struct {
	tiers []Tier
	now   func() time.Time
}

// Option customizes a Detector.
type Option func(*Detector)

// WithClock overrides the detection timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDetector builds a detector over the lexicon's tier vocabularies.
func NewDetector(lex lexicon.Lexicon, opts ...Option) *Detector {
	d := &Detector{tiers: TiersFrom(lex), now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDetector = NewDetector(lexicon.Default())

// Classify runs the default tiers over one item.
func Classify(item models.NewsItem) Detection {
	return defaultDetector.Classify(item)
}

// Detect runs the default detector over a batch.
func Detect(items []models.NewsItem) []models.MarketAlert {
	return defaultDetector.Detect(items)
}

// Classify normalizes the item's text and evaluates the tiers.
func (d *Detector) Classify(item models.NewsItem) Detection {
	text := processing.NormalizeText(item.Text())
	return ClassifyText(d.tiers, text)
}

// Detect returns one alert per qualifying item, highest impact first and
// most recent first within an impact. The full qualifying set is returned.
func (d *Detector) Detect(items []models.NewsItem) []models.MarketAlert {
	return d.DetectFrom(items, 0)
}

// DetectFrom is Detect with alert ids numbered from first instead of 0, for
// callers that classify a stream one item at a time.
func (d *Detector) DetectFrom(items []models.NewsItem, first int) []models.MarketAlert {
	alerts := make([]models.MarketAlert, 0)
	for i, item := range items {
		det := d.Classify(item)
		if !det.Matched {
			continue
		}
		now := d.now()
		alerts = append(alerts, newAlert(item, det, now, first+i))
	}
	SortAlerts(alerts)
	return alerts
}

func newAlert(item models.NewsItem, det Detection, at time.Time, index int) models.MarketAlert {
	return models.MarketAlert{
		ID:         fmt.Sprintf("alert-%d-%d", at.UnixMilli(), index),
		Title:      firstNonEmpty(item.Title, item.Headline, defaultTitle),
		Summary:    firstNonEmpty(item.Summary, defaultSummary),
		Source:     firstNonEmpty(item.Source, defaultSource),
		Category:   firstNonEmpty(item.Category, defaultCategory),
		Impact:     det.Impact,
		Keywords:   det.Keywords,
		DetectedAt: at,
	}
}

// SortAlerts orders alerts by impact (high first), then newest first.
// Ties keep their input order.
func SortAlerts(alerts []models.MarketAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		ri, rj := alerts[i].Impact.Rank(), alerts[j].Impact.Rank()
		if ri != rj {
			return ri > rj
		}
		return alerts[i].DetectedAt.After(alerts[j].DetectedAt)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
