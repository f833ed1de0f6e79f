package lexicon_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValidAndIsolated(t *testing.T) {
	lex := lexicon.Default()
	require.NoError(t, lex.Validate())
	require.Contains(t, lex.High, "federal reserve")
	require.Contains(t, lex.Medium, "profit")
	require.Contains(t, lex.Low, "announcement")

	lex.High[0] = "mutated"
	require.NotEqual(t, "mutated", lexicon.Default().High[0])
}

func TestLoadOverridesOnlyGivenLists(t *testing.T) {
	path := writeFile(t, `
medium:
  - "  Profit "
  - profit
  - Revenue
positive: [moon]
`)

	lex, err := lexicon.Load(path)
	require.NoError(t, err)
	require.Equal(t, []string{"profit", "revenue"}, lex.Medium)
	require.Equal(t, []string{"moon"}, lex.Positive)
	require.Equal(t, lexicon.Default().High, lex.High)
	require.Equal(t, lexicon.Default().Negative, lex.Negative)
}

func TestLoadRejectsSharedKeyword(t *testing.T) {
	path := writeFile(t, `
high: [merger]
medium: [merger, profit]
`)

	_, err := lexicon.Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "merger")
}

func TestLoadErrors(t *testing.T) {
	_, err := lexicon.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = lexicon.Load(writeFile(t, "high: [unterminated"))
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	lex, err := lexicon.LoadOrDefault("  ")
	require.NoError(t, err)
	require.Equal(t, lexicon.Default(), lex)
}
