package alerts

import "github.com/DeafMist/market-pulse/backend/internal/models"

// DefaultDisplayLimit is how many alerts the banner shows.
const DefaultDisplayLimit = 3

// ImpactColor maps an impact to its banner color.
func ImpactColor(impact models.Impact) string {
	switch impact {
	case models.ImpactHigh:
		return "#DC2626"
	case models.ImpactMedium:
		return "#D97706"
	case models.ImpactLow:
		return "#2563EB"
	default:
		return "#6B7280"
	}
}

// ImpactIcon maps an impact to its banner icon name.
func ImpactIcon(impact models.Impact) string {
	switch impact {
	case models.ImpactHigh:
		return "alert-triangle"
	case models.ImpactMedium:
		return "trending-up"
	case models.ImpactLow:
		return "info"
	default:
		return "bell"
	}
}

// Top returns a copy of at most n leading alerts. n <= 0 returns everything.
func Top(alerts []models.MarketAlert, n int) []models.MarketAlert {
	if n <= 0 || n > len(alerts) {
		n = len(alerts)
	}
	out := make([]models.MarketAlert, n)
	copy(out, alerts[:n])
	return out
}

// View is an alert decorated for display.
type View struct {
	models.MarketAlert
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Views decorates alerts with their color and icon.
func Views(alerts []models.MarketAlert) []View {
	out := make([]View, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, View{MarketAlert: a, Color: ImpactColor(a.Impact), Icon: ImpactIcon(a.Impact)})
	}
	return out
}
