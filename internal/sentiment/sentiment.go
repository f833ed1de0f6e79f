// Package sentiment scores headline polarity from keyword presence.
package sentiment

import (
	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/processing"
)

const (
	// step is the weight of each matched cue.
	step = 0.1

	positiveThreshold = 0.1
	negativeThreshold = -0.1
)

// Scorer maps text to a bounded sentiment score. It is safe for concurrent use.
type Scorer struct {
	positive []string
	negative []string
}

// NewScorer builds a scorer over the lexicon's positive and negative cues.
func NewScorer(lex lexicon.Lexicon) *Scorer {
	return &Scorer{positive: lex.Positive, negative: lex.Negative}
}

var defaultScorer = NewScorer(lexicon.Default())

// Score rates headline and summary with the built-in cue lists.
func Score(headline, summary string) models.Sentiment {
	return defaultScorer.Score(headline, summary)
}

// Score adds one step per positive cue present and subtracts one per negative
// cue present, then clamps to [-1, 1].
func (s *Scorer) Score(headline, summary string) models.Sentiment {
	text := processing.NormalizeText(headline, summary)

	// Counting in integers keeps 0.1 steps exact against the thresholds.
	net := processing.CountKeywords(text, s.positive) - processing.CountKeywords(text, s.negative)
	score := clamp(float64(net) * step)

	return models.Sentiment{Score: score, Label: LabelFor(score)}
}

// ScoreItem scores a news item using its display title and summary.
func (s *Scorer) ScoreItem(item models.NewsItem) models.Sentiment {
	return s.Score(item.DisplayTitle(), item.Summary)
}

// Annotate attaches a sentiment to every item, preserving order.
func (s *Scorer) Annotate(items []models.NewsItem) []models.ScoredNews {
	out := make([]models.ScoredNews, 0, len(items))
	for _, item := range items {
		out = append(out, models.ScoredNews{NewsItem: item, Sentiment: s.ScoreItem(item)})
	}
	return out
}

// Annotate uses the built-in cue lists.
func Annotate(items []models.NewsItem) []models.ScoredNews {
	return defaultScorer.Annotate(items)
}

// LabelFor derives the label from a score.
func LabelFor(score float64) models.SentimentLabel {
	switch {
	case score > positiveThreshold:
		return models.SentimentPositive
	case score < negativeThreshold:
		return models.SentimentNegative
	default:
		return models.SentimentNeutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
