package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// NewsItem is a single record handed over by the news collaborator.
// Every text field is optional; absent values decode to "".
type NewsItem struct {
	ID       string `json:"id"`
	Headline string `json:"headline,omitempty"`
	Title    string `json:"title,omitempty"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Related  string `json:"related,omitempty"`
	URL      string `json:"url,omitempty"`
	Image    string `json:"image,omitempty"`
}

// NewsRecord decodes a NewsItem from a collaborator payload. News APIs send
// the id as a number, local lists as a string; both are accepted and any
// other id shape is dropped rather than failing the record.
type NewsRecord struct {
	NewsItem
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *NewsRecord) UnmarshalJSON(data []byte) error {
	type fields NewsItem
	aux := struct {
		*fields
		ID json.RawMessage `json:"id"`
	}{fields: (*fields)(&r.NewsItem)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.ID = parseID(aux.ID)
	return nil
}

func parseID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// Items unwraps decoded records.
func Items(records []NewsRecord) []NewsItem {
	out := make([]NewsItem, len(records))
	for i, r := range records {
		out[i] = r.NewsItem
	}
	return out
}

// DisplayTitle prefers the headline and falls back to the title.
func (n NewsItem) DisplayTitle() string {
	if n.Headline != "" {
		return n.Headline
	}
	return n.Title
}

// Text is the raw text the classifier analyzes: title, summary and headline joined by spaces.
func (n NewsItem) Text() string {
	return n.Title + " " + n.Summary + " " + n.Headline
}

// PublishedAt converts Datetime (unix seconds) to a UTC time. Zero when unset.
func (n NewsItem) PublishedAt() time.Time {
	if n.Datetime <= 0 {
		return time.Time{}
	}
	return time.Unix(n.Datetime, 0).UTC()
}

// RelatedSymbols splits the comma-separated related field.
func (n NewsItem) RelatedSymbols() []string {
	if n.Related == "" {
		return nil
	}
	parts := strings.Split(n.Related, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SentimentLabel is the coarse polarity bucket of a sentiment score.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// Sentiment is derived per item and never stored.
type Sentiment struct {
	Score float64        `json:"score"`
	Label SentimentLabel `json:"label"`
}

// ScoredNews is a news item with its sentiment attached for display.
type ScoredNews struct {
	NewsItem
	Sentiment Sentiment `json:"sentiment"`
}
