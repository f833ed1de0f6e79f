package alerts_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/models"
)

func TestImpactColorAndIcon(t *testing.T) {
	tests := []struct {
		impact models.Impact
		color  string
		icon   string
	}{
		{models.ImpactHigh, "#DC2626", "alert-triangle"},
		{models.ImpactMedium, "#D97706", "trending-up"},
		{models.ImpactLow, "#2563EB", "info"},
		{models.Impact("unknown"), "#6B7280", "bell"},
		{models.Impact(""), "#6B7280", "bell"},
	}

	for _, tt := range tests {
		t.Run(string(tt.impact), func(t *testing.T) {
			require.Equal(t, tt.color, alerts.ImpactColor(tt.impact))
			require.Equal(t, tt.icon, alerts.ImpactIcon(tt.impact))
		})
	}
}

func TestTop(t *testing.T) {
	list := []models.MarketAlert{{ID: "1"}, {ID: "2"}, {ID: "3"}, {ID: "4"}}

	got := alerts.Top(list, alerts.DefaultDisplayLimit)
	require.Len(t, got, 3)
	require.Equal(t, "3", got[2].ID)

	got[0].ID = "changed"
	require.Equal(t, "1", list[0].ID)

	require.Len(t, alerts.Top(list, 0), 4)
	require.Len(t, alerts.Top(list, 10), 4)
	require.Empty(t, alerts.Top(nil, 3))
}

func TestViews(t *testing.T) {
	got := alerts.Views([]models.MarketAlert{{ID: "x", Impact: models.ImpactMedium}})
	require.Len(t, got, 1)
	require.Equal(t, "x", got[0].ID)
	require.Equal(t, "#D97706", got[0].Color)
	require.Equal(t, "trending-up", got[0].Icon)
}
