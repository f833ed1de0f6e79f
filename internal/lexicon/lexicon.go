// Package lexicon holds the keyword tables used by the sentiment scorer and
// the alert detector. Tables are built once at startup and treated as read-only.
package lexicon

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon groups the sentiment cue lists and the three alert tier vocabularies.
type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	High     []string `yaml:"high"`
	Medium   []string `yaml:"medium"`
	Low      []string `yaml:"low"`
}

var (
	defaultPositive = []string{
		"up", "rise", "gain", "growth", "positive", "bull", "strong", "high", "increase",
	}
	defaultNegative = []string{
		"down", "fall", "loss", "decline", "negative", "bear", "weak", "low", "decrease",
	}

	defaultHigh = []string{
		"inflation", "interest rate", "interest rates", "federal reserve", "fed",
		"rate hike", "rate cut", "recession", "market crash", "stock market crash",
		"financial crisis", "bankruptcy", "default", "bailout",
		"regulation", "regulatory", "sec investigation", "antitrust", "monopoly", "lawsuit",
		"earnings beat", "earnings miss", "merger", "acquisition", "takeover", "ipo",
		"cyber attack", "data breach", "sanctions", "tariff",
		"cpi", "gdp", "unemployment", "jobs report", "nonfarm payrolls", "vix",
	}
	defaultMedium = []string{
		"earnings", "profit", "revenue", "growth", "downgrade", "upgrade",
		"outlook", "guidance", "partnership", "investment", "funding", "valuation",
		"dividend", "buyback", "expansion", "layoffs", "quarterly", "margin",
	}
	defaultLow = []string{
		"announcement", "update", "report", "analysis", "commentary", "forecast",
		"trend", "strategy", "review", "statement", "survey", "preview", "insight",
	}
)

// Default returns a fresh copy of the built-in tables.
func Default() Lexicon {
	return Lexicon{
		Positive: slices.Clone(defaultPositive),
		Negative: slices.Clone(defaultNegative),
		High:     slices.Clone(defaultHigh),
		Medium:   slices.Clone(defaultMedium),
		Low:      slices.Clone(defaultLow),
	}
}

// Load reads a YAML override. Lists missing from the file keep their defaults.
func Load(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon: %w", err)
	}

	var override Lexicon
	if err := yaml.Unmarshal(data, &override); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := Default()
	if len(override.Positive) > 0 {
		lex.Positive = override.Positive
	}
	if len(override.Negative) > 0 {
		lex.Negative = override.Negative
	}
	if len(override.High) > 0 {
		lex.High = override.High
	}
	if len(override.Medium) > 0 {
		lex.Medium = override.Medium
	}
	if len(override.Low) > 0 {
		lex.Low = override.Low
	}

	lex = lex.normalized()
	if err := lex.Validate(); err != nil {
		return Lexicon{}, err
	}
	return lex, nil
}

// LoadOrDefault loads path when set and returns the defaults otherwise.
func LoadOrDefault(path string) (Lexicon, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return Load(path)
}

// Validate rejects empty tier vocabularies and keywords shared between tiers.
func (l Lexicon) Validate() error {
	tiers := []struct {
		name  string
		words []string
	}{
		{"high", l.High},
		{"medium", l.Medium},
		{"low", l.Low},
	}

	owner := make(map[string]string)
	for _, tier := range tiers {
		if len(tier.words) == 0 {
			return fmt.Errorf("lexicon tier %s is empty", tier.name)
		}
		for _, w := range tier.words {
			if prev, ok := owner[w]; ok && prev != tier.name {
				return fmt.Errorf("keyword %q appears in tiers %s and %s", w, prev, tier.name)
			}
			owner[w] = tier.name
		}
	}
	return nil
}

func (l Lexicon) normalized() Lexicon {
	return Lexicon{
		Positive: normalizeList(l.Positive),
		Negative: normalizeList(l.Negative),
		High:     normalizeList(l.High),
		Medium:   normalizeList(l.Medium),
		Low:      normalizeList(l.Low),
	}
}

// normalizeList lowercases and trims, dropping blanks and repeats while keeping order.
func normalizeList(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
