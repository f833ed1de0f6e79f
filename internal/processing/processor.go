package processing

import (
	"crypto/sha1"
	"encoding/hex"
	"html"
	"regexp"
	"strings"
	"time"
)

var (
	tagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespace  = regexp.MustCompile(`\s+`)
	urlRegex    = regexp.MustCompile(`https?://[^\s]+`)
	sentenceEnd = regexp.MustCompile(`[.!?]`)
)

// NormalizeText joins the parts with single spaces and lowercases the result.
// It is the only normalization the classifier applies before keyword lookup.
func NormalizeText(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

// MatchKeywords returns every keyword of vocab found as a substring of text,
// in vocab order. Each keyword is reported at most once.
func MatchKeywords(text string, vocab []string) []string {
	if text == "" || len(vocab) == 0 {
		return nil
	}
	var matched []string
	for _, kw := range vocab {
		if kw != "" && strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// CountKeywords is MatchKeywords without the allocation.
func CountKeywords(text string, vocab []string) int {
	n := 0
	for _, kw := range vocab {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// CleanText decodes HTML entities, drops markup and URLs, and squeezes whitespace.
func CleanText(input string) string {
	if input == "" {
		return ""
	}
	decoded := html.UnescapeString(input)
	decoded = tagRegex.ReplaceAllString(decoded, " ")
	decoded = urlRegex.ReplaceAllString(decoded, " ")
	decoded = whitespace.ReplaceAllString(decoded, " ")
	return strings.TrimSpace(decoded)
}

// BuildDocumentID hashes the most stable fields to form deterministic IDs.
func BuildDocumentID(headline, source string, ts time.Time) string {
	s := sha1.Sum([]byte(headline + "|" + source + "|" + ts.UTC().Format(time.RFC3339)))
	return hex.EncodeToString(s[:])
}

// GenerateTitleFromText builds a headline from the first sentence of text,
// truncated to maxWords (0 means unlimited).
func GenerateTitleFromText(text string, maxWords int) string {
	text = CleanText(text)
	if text == "" {
		return ""
	}

	first := text
	if loc := sentenceEnd.FindStringIndex(text); loc != nil && loc[0] > 0 {
		first = text[:loc[0]]
	}

	words := strings.Fields(first)
	if len(words) == 0 {
		return ""
	}
	if maxWords > 0 && len(words) > maxWords {
		return strings.Join(words[:maxWords], " ") + "..."
	}
	return strings.Join(words, " ")
}
