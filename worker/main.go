package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/config"
	"github.com/DeafMist/market-pulse/backend/internal/dedupe"
	"github.com/DeafMist/market-pulse/backend/internal/elasticsearch"
	"github.com/DeafMist/market-pulse/backend/internal/lexicon"
	"github.com/DeafMist/market-pulse/backend/internal/logger"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/processing"
	"github.com/DeafMist/market-pulse/backend/internal/stream"
)

type newsIndexer interface {
	IndexNews(ctx context.Context, item models.NewsItem) error
}

type alertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.MarketAlert) error
}

type pipeline struct {
	log       *slog.Logger
	indexer   newsIndexer
	publisher alertPublisher
	detector  *alerts.Detector
	cache     *dedupe.Cache
	cfg       *config.Worker
	now       func() time.Time

	// seq numbers alerts across messages so ids stay unique within a millisecond.
	seq atomic.Int64
}

func main() {
	log := logger.New("worker")
	cfg, err := config.LoadWorker()
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

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	err = esClient.EnsureIndex(setupCtx)
	cancelSetup()
	if err != nil {
		log.Error("ensure index", slog.String("index", cfg.ElasticsearchIndex), slog.Any("err", err))
		os.Exit(1)
	}

	publisher := stream.NewPublisher(nil, stream.NewWriter(cfg.KafkaBrokers, cfg.KafkaAlertsTopic))
	defer publisher.Close()

	p := &pipeline{
		log:       log,
		indexer:   esClient,
		publisher: publisher,
		detector:  alerts.NewDetector(lex),
		cache:     dedupe.NewCache(cfg.DedupeCapacity, cfg.DedupeTTL),
		cfg:       cfg,
		now:       time.Now,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.KafkaBrokers,
		Topic:          cfg.KafkaNewsTopic,
		GroupID:        cfg.KafkaConsumer,
		QueueCapacity:  cfg.BatchSize,
		MinBytes:       1e3,
		MaxBytes:       10e6,
		CommitInterval: 0, // manual commit only
	})
	defer reader.Close()

	dlqTopic := cfg.KafkaNewsTopic + "_dlq"
	dlqWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       dlqTopic,
		MaxAttempts: 3,
	})
	defer dlqWriter.Close()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaNewsTopic),
		slog.String("alerts_topic", cfg.KafkaAlertsTopic),
		slog.String("group", cfg.KafkaConsumer),
		slog.String("dlq_topic", dlqTopic),
	)

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("context canceled, stopping")
				return
			}
			log.Error("fetch message", slog.Any("err", err))
			continue
		}

		if err := p.processMessage(ctx, msg); err != nil {
			log.Warn("process message failed, sending to DLQ",
				slog.Any("err", err),
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
			)
			if !sendToDLQ(ctx, log, dlqWriter, msg, err) {
				if ctx.Err() != nil {
					return
				}
				log.Error("DLQ write exhausted retries, message may be lost if later messages commit",
					slog.Int("partition", msg.Partition),
					slog.Int64("offset", msg.Offset),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message", slog.Any("err", err))
		}
	}
}

// sendToDLQ forwards a failed message with its error context, retrying with
// exponential backoff. It reports whether the write succeeded.
func sendToDLQ(ctx context.Context, log *slog.Logger, w *kafka.Writer, msg kafka.Message, cause error) bool {
	dlqMsg := kafka.Message{
		Key:   msg.Key,
		Value: msg.Value,
		Headers: append(msg.Headers,
			kafka.Header{Key: "original_partition", Value: []byte(fmt.Sprintf("%d", msg.Partition))},
			kafka.Header{Key: "original_offset", Value: []byte(fmt.Sprintf("%d", msg.Offset))},
			kafka.Header{Key: "error", Value: []byte(cause.Error())},
			kafka.Header{Key: "timestamp", Value: []byte(time.Now().UTC().Format(time.RFC3339))},
		),
	}

	for attempt := 0; attempt < 5; attempt++ {
		dlqErr := w.WriteMessages(ctx, dlqMsg)
		if dlqErr == nil {
			log.Info("message sent to DLQ",
				slog.Int("partition", msg.Partition),
				slog.Int64("offset", msg.Offset),
				slog.Int("attempt", attempt+1),
			)
			return true
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		log.Warn("DLQ write failed, retrying",
			slog.Any("err", dlqErr),
			slog.Int("attempt", attempt+1),
			slog.Duration("backoff", backoff),
		)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			log.Info("context canceled during DLQ retry")
			return false
		}
	}
	return false
}

func (p *pipeline) processMessage(ctx context.Context, msg kafka.Message) error {
	var payload models.NewsRecord
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("decode news: %w", err)
	}

	item, err := p.normalize(payload.NewsItem)
	if err != nil {
		return err
	}

	if p.cache.Seen(item.ID) {
		p.log.Debug("duplicate news", slog.String("id", item.ID))
		return nil
	}

	if err := p.indexer.IndexNews(ctx, item); err != nil {
		return err
	}
	p.cache.Mark(item.ID)

	detected := p.detector.DetectFrom([]models.NewsItem{item}, int(p.seq.Add(1)))
	if len(detected) > 0 {
		// the item is already stored; a lost alert is logged, not retried
		if err := p.publisher.PublishAlerts(ctx, detected); err != nil {
			p.log.Error("publish alert", slog.String("id", item.ID), slog.Any("err", err))
		} else {
			p.log.Info("market alert",
				slog.String("id", item.ID),
				slog.String("impact", string(detected[0].Impact)),
				slog.Any("keywords", detected[0].Keywords),
			)
		}
	}

	p.log.Info("indexed news", slog.String("id", item.ID), slog.String("headline", item.DisplayTitle()))
	return nil
}

func (p *pipeline) normalize(raw models.NewsItem) (models.NewsItem, error) {
	item := raw
	item.Headline = processing.CleanText(strings.TrimSpace(raw.Headline))
	item.Title = processing.CleanText(strings.TrimSpace(raw.Title))
	item.Summary = processing.CleanText(strings.TrimSpace(raw.Summary))
	item.Source = strings.TrimSpace(raw.Source)
	item.Category = strings.ToLower(strings.TrimSpace(raw.Category))

	if item.Headline == "" && item.Title == "" {
		if item.Summary == "" {
			return models.NewsItem{}, errors.New("empty payload")
		}
		item.Headline = processing.GenerateTitleFromText(item.Summary, p.cfg.TitleMaxWords)
	}

	if item.Datetime <= 0 {
		item.Datetime = p.now().Unix()
	}
	if item.Source == "" {
		item.Source = "Unknown"
	}
	if item.Category == "" {
		item.Category = "general"
	}
	if item.ID == "" {
		item.ID = processing.BuildDocumentID(item.DisplayTitle(), item.Source, item.PublishedAt())
	}
	return item, nil
}
