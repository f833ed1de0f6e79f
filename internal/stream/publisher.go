// Package stream moves news items and alerts over Kafka.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/DeafMist/market-pulse/backend/internal/models"
)

// BatchHeader carries the id shared by all messages of one publish call.
const BatchHeader = "batch_id"

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes JSON-encoded news and alerts to their topics.
type Publisher struct {
	news   MessageWriter
	alerts MessageWriter
}

// NewWriter returns a kafka writer for topic with the project defaults.
func NewWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		MaxAttempts:  3,
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewPublisher wires the two topic writers. Either may be nil when the
// caller only publishes one kind of message.
func NewPublisher(news, alerts MessageWriter) *Publisher {
	return &Publisher{news: news, alerts: alerts}
}

// PublishNews sends items keyed by their ID.
func (p *Publisher) PublishNews(ctx context.Context, items []models.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	if p.news == nil {
		return fmt.Errorf("publish news: no news writer configured")
	}

	batch := batchHeader()
	msgs := make([]kafka.Message, 0, len(items))
	for _, item := range items {
		msg, err := EncodeNews(item)
		if err != nil {
			return err
		}
		msg.Headers = append(msg.Headers, batch)
		msgs = append(msgs, msg)
	}

	if err := p.news.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write news: %w", err)
	}
	return nil
}

// PublishAlerts sends alerts keyed by their ID.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []models.MarketAlert) error {
	if len(alerts) == 0 {
		return nil
	}
	if p.alerts == nil {
		return fmt.Errorf("publish alerts: no alerts writer configured")
	}

	batch := batchHeader()
	msgs := make([]kafka.Message, 0, len(alerts))
	for _, alert := range alerts {
		msg, err := EncodeAlert(alert)
		if err != nil {
			return err
		}
		msg.Headers = append(msg.Headers, batch)
		msgs = append(msgs, msg)
	}

	if err := p.alerts.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write alerts: %w", err)
	}
	return nil
}

// Close closes both writers.
func (p *Publisher) Close() error {
	var firstErr error
	for _, w := range []MessageWriter{p.news, p.alerts} {
		if w == nil {
			continue
		}
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// EncodeNews builds the Kafka message for a news item.
func EncodeNews(item models.NewsItem) (kafka.Message, error) {
	value, err := json.Marshal(item)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal news: %w", err)
	}
	return kafka.Message{Key: []byte(item.ID), Value: value}, nil
}

// EncodeAlert builds the Kafka message for an alert, with its impact as a header.
func EncodeAlert(alert models.MarketAlert) (kafka.Message, error) {
	value, err := json.Marshal(alert)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal alert: %w", err)
	}
	return kafka.Message{
		Key:     []byte(alert.ID),
		Value:   value,
		Headers: []kafka.Header{{Key: "impact", Value: []byte(alert.Impact)}},
	}, nil
}

func batchHeader() kafka.Header {
	return kafka.Header{Key: BatchHeader, Value: []byte(uuid.NewString())}
}
