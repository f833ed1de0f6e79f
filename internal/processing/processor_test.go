package processing_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/processing"
)

func TestNormalizeText(t *testing.T) {
	require.Equal(t, "federal reserve  signals", processing.NormalizeText("Federal Reserve", "", "SIGNALS"))
	require.Equal(t, "", processing.NormalizeText())
	require.Equal(t, "  ", processing.NormalizeText("", "", ""))
}

func TestMatchKeywords(t *testing.T) {
	vocab := []string{"profit", "growth", "revenue", "earnings"}

	tests := []struct {
		name string
		text string
		want []string
	}{
		{name: "empty text", text: "", want: nil},
		{name: "no match", text: "quiet day on the desk", want: nil},
		{name: "vocabulary order not text order", text: "growth drove profit", want: []string{"profit", "growth"}},
		{name: "repeated keyword counted once", text: "profit profit profit", want: []string{"profit"}},
		{name: "substring containment", text: "unprofitable quarter", want: []string{"profit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := processing.MatchKeywords(tt.text, vocab)
			require.Equal(t, tt.want, got)
			require.Equal(t, len(tt.want), processing.CountKeywords(tt.text, vocab))
		})
	}
}

func TestMatchKeywordsSkipsEmptyEntries(t *testing.T) {
	require.Equal(t, []string{"fed"}, processing.MatchKeywords("the fed", []string{"", "fed"}))
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "markup", input: "<b>Stocks</b> rally", want: "Stocks rally"},
		{name: "entities", input: "S&amp;P 500 &quot;record&quot;", want: `S&P 500 "record"`},
		{name: "collapse whitespace", input: "foo\n\nbar\t baz", want: "foo bar baz"},
		{name: "remove urls", input: "Read https://example.com/a now", want: "Read now"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.CleanText(tt.input))
		})
	}
}

func TestBuildDocumentID(t *testing.T) {
	ts := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	id1 := processing.BuildDocumentID("headline", "Reuters", ts)
	id2 := processing.BuildDocumentID("headline", "Reuters", ts)
	require.NotEmpty(t, id1)
	require.Equal(t, id1, id2)
	require.NotEqual(t, id1, processing.BuildDocumentID("headline", "Bloomberg", ts))
}

func TestGenerateTitleFromText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWords int
		want     string
	}{
		{name: "empty", text: "", maxWords: 10, want: ""},
		{name: "single sentence", text: "Markets closed higher.", maxWords: 10, want: "Markets closed higher"},
		{name: "multiple sentences", text: "Oil slides! Brent fell 3%. Traders wary.", maxWords: 10, want: "Oil slides"},
		{name: "truncated", text: "Central banks across the globe signal a slower pace of cuts", maxWords: 4, want: "Central banks across the..."},
		{name: "unlimited", text: "Gold steadies near highs", maxWords: 0, want: "Gold steadies near highs"},
		{name: "markup stripped", text: "<p>Yen weakens</p>", maxWords: 10, want: "Yen weakens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, processing.GenerateTitleFromText(tt.text, tt.maxWords))
		})
	}
}
