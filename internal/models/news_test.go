package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

func TestNewsRecordAcceptsNumericAndStringIDs(t *testing.T) {
	body := `[
		{"category":"top news","datetime":1717236000,"headline":"Fed holds rates","id":7266617,"related":"SPY,QQQ","source":"Reuters","summary":""},
		{"id":"fallback-1","headline":"Dollar steadies"},
		{"id":null,"headline":"No id"},
		{"id":true,"headline":"Odd id"},
		{"headline":"Missing id"}
	]`

	var records []models.NewsRecord
	require.NoError(t, json.Unmarshal([]byte(body), &records))

	items := models.Items(records)
	require.Len(t, items, 5)

	require.Equal(t, "7266617", items[0].ID)
	require.Equal(t, "Fed holds rates", items[0].Headline)
	require.Equal(t, "Reuters", items[0].Source)
	require.EqualValues(t, 1717236000, items[0].Datetime)
	require.Equal(t, []string{"SPY", "QQQ"}, items[0].RelatedSymbols())

	require.Equal(t, "fallback-1", items[1].ID)
	require.Empty(t, items[2].ID)
	require.Empty(t, items[3].ID)
	require.Empty(t, items[4].ID)
	require.Equal(t, "Missing id", items[4].Headline)
}

func TestNewsRecordRejectsNonObjects(t *testing.T) {
	var records []models.NewsRecord
	require.Error(t, json.Unmarshal([]byte(`[1, 2]`), &records))
}

func TestImpactValid(t *testing.T) {
	for _, impact := range []models.Impact{models.ImpactHigh, models.ImpactMedium, models.ImpactLow} {
		require.True(t, impact.Valid(), impact)
	}
	require.False(t, models.Impact("critical").Valid())
	require.False(t, models.Impact("").Valid())
}
