package alerts_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/models"
)

func TestBoardReplaceAndDismiss(t *testing.T) {
	board := alerts.NewBoard()
	require.True(t, board.RefreshedAt().IsZero())
	require.Empty(t, board.Alerts(3))

	at := time.Unix(1700000000, 0)
	news := []models.ScoredNews{{NewsItem: models.NewsItem{ID: "n1"}}}
	list := []models.MarketAlert{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	board.Replace(news, list, at)

	require.Equal(t, at, board.RefreshedAt())
	require.Len(t, board.News(), 1)
	require.Len(t, board.Alerts(3), 3)

	require.True(t, board.Dismiss("b"))
	require.False(t, board.Dismiss("b"))
	require.False(t, board.Dismiss("missing"))

	got := board.Alerts(3)
	require.Equal(t, []string{"a", "c", "d"}, []string{got[0].ID, got[1].ID, got[2].ID})

	// the caller's slice is not touched by dismissals
	require.Equal(t, "b", list[1].ID)

	board.Replace(nil, []models.MarketAlert{{ID: "z"}}, at.Add(time.Minute))
	require.Len(t, board.Alerts(0), 1)
	require.Empty(t, board.News())
}

func TestBoardConcurrentAccess(t *testing.T) {
	board := alerts.NewBoard()
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			list := []models.MarketAlert{{ID: fmt.Sprintf("a-%d", i)}}
			board.Replace(nil, list, time.Now())
		}(i)
		go func(i int) {
			defer wg.Done()
			board.Dismiss(fmt.Sprintf("a-%d", i))
			_ = board.Alerts(3)
		}(i)
	}
	wg.Wait()

	require.LessOrEqual(t, len(board.Alerts(0)), 1)
}
