package models

import "time"

// Impact is the alert tier assigned by the detector.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// Rank orders impacts for sorting; unknown values rank lowest.
func (i Impact) Rank() int {
	switch i {
	case ImpactHigh:
		return 3
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether i is one of the three known tiers.
func (i Impact) Valid() bool {
	return i.Rank() > 0
}

// MarketAlert is a market-moving news item flagged by the detector.
type MarketAlert struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Source     string    `json:"source"`
	Category   string    `json:"category"`
	Impact     Impact    `json:"impact"`
	Keywords   []string  `json:"keywords"`
	DetectedAt time.Time `json:"detected_at"`
}
