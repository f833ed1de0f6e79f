package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DeafMist/market-pulse/backend/internal/config"
	"github.com/DeafMist/market-pulse/backend/internal/logger"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/newsfeed"
	"github.com/DeafMist/market-pulse/backend/internal/stream"
)

type newsPublisher interface {
	PublishNews(ctx context.Context, items []models.NewsItem) error
}

func main() {
	log := logger.New("poller")
	cfg, err := config.LoadPoller()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	src := buildSource(cfg)
	publisher := stream.NewPublisher(stream.NewWriter(cfg.KafkaBrokers, cfg.KafkaNewsTopic), nil)
	defer publisher.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cfg.Schedule, func() {
		poll(ctx, log, src, publisher, cfg.FetchTimeout)
	}); err != nil {
		log.Error("invalid schedule", slog.String("schedule", cfg.Schedule), slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("poller started",
		slog.String("schedule", cfg.Schedule),
		slog.String("topic", cfg.KafkaNewsTopic),
		slog.Int("rss_feeds", len(cfg.RSSFeeds)),
	)

	poll(ctx, log, src, publisher, cfg.FetchTimeout)
	c.Start()

	<-ctx.Done()
	log.Info("shutdown signal received")
	<-c.Stop().Done()
}

func buildSource(cfg *config.Poller) newsfeed.Source {
	if len(cfg.RSSFeeds) > 0 {
		return newsfeed.NewRSSSource(cfg.RSSFeeds, cfg.NewsCategory, cfg.FetchTimeout)
	}
	return newsfeed.NewFinnhubClient(cfg.NewsAPIURL, cfg.NewsAPIKey, cfg.NewsCategory, cfg.FetchTimeout)
}

// poll fetches one batch and forwards it. Failures are logged and retried on
// the next tick; the local fallback list is never published.
func poll(ctx context.Context, log *slog.Logger, src newsfeed.Source, pub newsPublisher, timeout time.Duration) int {
	if ctx.Err() != nil {
		return 0
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	items, err := src.Fetch(fetchCtx)
	cancel()
	if err != nil {
		log.Warn("fetch news failed (will retry on next tick)", slog.Any("err", err))
		return 0
	}
	if len(items) == 0 {
		log.Debug("no news in this tick")
		return 0
	}

	if err := pub.PublishNews(ctx, items); err != nil {
		log.Error("publish news", slog.Int("items", len(items)), slog.Any("err", err))
		return 0
	}

	log.Info("published news", slog.Int("items", len(items)))
	return len(items)
}
