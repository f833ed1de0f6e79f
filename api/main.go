package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/config"
	"github.com/DeafMist/market-pulse/backend/internal/elasticsearch"
	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/logger"
	"github.com/DeafMist/market-pulse/backend/internal/newsfeed"
	"github.com/DeafMist/market-pulse/backend/internal/sentiment"
)

func main() {
	log := logger.New("api")
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	lex, err := lexicon.LoadOrDefault(cfg.LexiconPath)
	if err != nil {
		log.Error("load lexicon", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &server{
		log:      log,
		cfg:      cfg,
		es:       esClient,
		source:   newsfeed.WithFallback(newsfeed.NewElasticSource(esClient, cfg.NewsLimit, ""), newsfeed.NewFallbackSource(), log),
		scorer:   sentiment.NewScorer(lex),
		detector: alerts.NewDetector(lex),
		board:    alerts.NewBoard(),
		now:      time.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// initial load, then the periodic timer; manual refreshes come through POST /refresh
	srv.refresh(ctx)
	refresher := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := refresher.AddFunc(cfg.RefreshSchedule, func() { srv.refresh(ctx) }); err != nil {
		log.Error("invalid refresh schedule", slog.String("schedule", cfg.RefreshSchedule), slog.Any("err", err))
		os.Exit(1)
	}
	refresher.Start()
	defer refresher.Stop()

	httpServer := &http.Server{
		Addr:              cfg.BindAddr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	go func() {
		log.Info("api server starting", slog.String("addr", cfg.BindAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", slog.Any("err", err))
	}
}
