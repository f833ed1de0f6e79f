package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/config"
	"github.com/DeafMist/market-pulse/backend/internal/dedupe"
	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/logger"
	"github.com/DeafMist/market-pulse/backend/internal/models"
)

type stubIndexer struct {
	items []models.NewsItem
	err   error
}

func (s *stubIndexer) IndexNews(_ context.Context, item models.NewsItem) error {
	if s.err != nil {
		return s.err
	}
	s.items = append(s.items, item)
	return nil
}

type stubPublisher struct {
	alerts []models.MarketAlert
	err    error
}

func (s *stubPublisher) PublishAlerts(_ context.Context, list []models.MarketAlert) error {
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, list...)
	return nil
}

var testNow = time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC)

func newTestPipeline(idx *stubIndexer, pub *stubPublisher) *pipeline {
	return &pipeline{
		log:       logger.Discard(),
		indexer:   idx,
		publisher: pub,
		detector:  alerts.NewDetector(lexicon.Default(), alerts.WithClock(func() time.Time { return testNow })),
		cache:     dedupe.NewCache(100, time.Hour),
		cfg:       &config.Worker{TitleMaxWords: 6},
		now:       func() time.Time { return testNow },
	}
}

func message(t *testing.T, item models.NewsItem) kafka.Message {
	t.Helper()
	data, err := json.Marshal(item)
	require.NoError(t, err)
	return kafka.Message{Value: data}
}

func TestProcessMessageIndexesAndAlerts(t *testing.T) {
	idx, pub := &stubIndexer{}, &stubPublisher{}
	p := newTestPipeline(idx, pub)

	msg := message(t, models.NewsItem{
		ID:       "42",
		Headline: "  Federal Reserve Signals Rate Changes ",
		Summary:  "<b>Markets</b> react",
		Source:   "Reuters",
		Category: "General",
		Datetime: 1700000000,
	})

	require.NoError(t, p.processMessage(context.Background(), msg))
	require.Len(t, idx.items, 1)

	item := idx.items[0]
	require.Equal(t, "Federal Reserve Signals Rate Changes", item.Headline)
	require.Equal(t, "Markets react", item.Summary)
	require.Equal(t, "general", item.Category)

	require.Len(t, pub.alerts, 1)
	require.Equal(t, models.ImpactHigh, pub.alerts[0].Impact)
	require.Equal(t, "Reuters", pub.alerts[0].Source)

	// duplicates are skipped entirely
	require.NoError(t, p.processMessage(context.Background(), msg))
	require.Len(t, idx.items, 1)
	require.Len(t, pub.alerts, 1)
}

func TestProcessMessageWithoutAlert(t *testing.T) {
	idx, pub := &stubIndexer{}, &stubPublisher{}
	p := newTestPipeline(idx, pub)

	require.NoError(t, p.processMessage(context.Background(), message(t, models.NewsItem{Headline: "Quiet session"})))
	require.Len(t, idx.items, 1)
	require.Empty(t, pub.alerts)

	item := idx.items[0]
	require.NotEmpty(t, item.ID)
	require.Equal(t, "Unknown", item.Source)
	require.Equal(t, "general", item.Category)
	require.Equal(t, testNow.Unix(), item.Datetime)
}

func TestProcessMessageGeneratesHeadline(t *testing.T) {
	idx := &stubIndexer{}
	p := newTestPipeline(idx, &stubPublisher{})

	msg := message(t, models.NewsItem{Summary: "Oil prices slide as supply worries ease across global markets. More later."})
	require.NoError(t, p.processMessage(context.Background(), msg))
	require.Equal(t, "Oil prices slide as supply worries...", idx.items[0].Headline)
}

func TestProcessMessageErrors(t *testing.T) {
	p := newTestPipeline(&stubIndexer{}, &stubPublisher{})

	require.Error(t, p.processMessage(context.Background(), kafka.Message{Value: []byte("{")}))
	require.Error(t, p.processMessage(context.Background(), message(t, models.NewsItem{Source: "x"})))

	boom := errors.New("es down")
	failing := newTestPipeline(&stubIndexer{err: boom}, &stubPublisher{})
	err := failing.processMessage(context.Background(), message(t, models.NewsItem{Headline: "GDP surprises"}))
	require.ErrorIs(t, err, boom)

	// a failed index is not remembered, so a retry is processed
	ok := &stubIndexer{}
	failing.indexer = ok
	require.NoError(t, failing.processMessage(context.Background(), message(t, models.NewsItem{Headline: "GDP surprises"})))
	require.Len(t, ok.items, 1)
}

func TestProcessMessageAlertPublishFailureIsNotFatal(t *testing.T) {
	idx := &stubIndexer{}
	p := newTestPipeline(idx, &stubPublisher{err: errors.New("broker down")})

	require.NoError(t, p.processMessage(context.Background(), message(t, models.NewsItem{Headline: "Data breach at lender"})))
	require.Len(t, idx.items, 1)
}

func TestProcessMessageAlertIDsUniqueWithinInstant(t *testing.T) {
	idx, pub := &stubIndexer{}, &stubPublisher{}
	p := newTestPipeline(idx, pub)

	for _, id := range []string{"a", "b"} {
		msg := message(t, models.NewsItem{ID: id, Headline: "Data breach at exchange", Source: "Reuters"})
		require.NoError(t, p.processMessage(context.Background(), msg))
	}

	require.Len(t, pub.alerts, 2)
	require.NotEqual(t, pub.alerts[0].ID, pub.alerts[1].ID)
	require.Equal(t, fmt.Sprintf("alert-%d-1", testNow.UnixMilli()), pub.alerts[0].ID)
	require.Equal(t, fmt.Sprintf("alert-%d-2", testNow.UnixMilli()), pub.alerts[1].ID)
}

func TestProcessMessageAcceptsNumericID(t *testing.T) {
	idx, pub := &stubIndexer{}, &stubPublisher{}
	p := newTestPipeline(idx, pub)

	msg := kafka.Message{Value: []byte(`{"id":7266617,"headline":"Quiet session for stocks","datetime":1700000000}`)}
	require.NoError(t, p.processMessage(context.Background(), msg))
	require.Len(t, idx.items, 1)
	require.Equal(t, "7266617", idx.items[0].ID)
}
