// Package alerts flags market-moving news by keyword-impact tiering.
package alerts

import (
	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/processing"
)

// Tier is one impact level: its vocabulary and the number of distinct
// keywords that must be present for the tier to fire.
type Tier struct {
	Impact     models.Impact
	Keywords   []string
	MinMatches int
}

// Detection is the outcome of classifying one item. When Matched is false
// the item produces no alert and the other fields are zero.
type Detection struct {
	Matched  bool
	Impact   models.Impact
	Keywords []string
}

// NoAlert is the zero Detection.
var NoAlert = Detection{}

// TiersFrom builds the high/medium/low tiers from a lexicon, in evaluation order.
func TiersFrom(lex lexicon.Lexicon) []Tier {
	return []Tier{
		{Impact: models.ImpactHigh, Keywords: lex.High, MinMatches: 1},
		{Impact: models.ImpactMedium, Keywords: lex.Medium, MinMatches: 2},
		{Impact: models.ImpactLow, Keywords: lex.Low, MinMatches: 3},
	}
}

// EvaluateTier tests a single tier against already normalized text.
func EvaluateTier(tier Tier, text string) Detection {
	matched := processing.MatchKeywords(text, tier.Keywords)
	if len(matched) == 0 || len(matched) < tier.MinMatches {
		return NoAlert
	}
	return Detection{Matched: true, Impact: tier.Impact, Keywords: matched}
}

// ClassifyText walks the tiers in order and returns the first that fires.
// Lower tiers are never consulted once a higher one has matched.
func ClassifyText(tiers []Tier, text string) Detection {
	for _, tier := range tiers {
		if d := EvaluateTier(tier, text); d.Matched {
			return d
		}
	}
	return NoAlert
}
