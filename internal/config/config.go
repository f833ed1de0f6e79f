package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
)

// Common contains parameters shared by every service.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
	LexiconPath        string
}

// Kafka holds broker coordinates for the news and alert topics.
type Kafka struct {
	KafkaBrokers     []string
	KafkaNewsTopic   string
	KafkaAlertsTopic string
}

// Worker holds configuration for the Kafka -> Elasticsearch worker.
type Worker struct {
	Common
	Kafka
	KafkaConsumer  string
	TitleMaxWords  int
	DedupeCapacity int
	DedupeTTL      time.Duration
	BatchSize      int
}

// Poller configures the periodic news fetcher.
type Poller struct {
	Kafka
	Schedule     string
	NewsAPIURL   string
	NewsAPIKey   string
	NewsCategory string
	RSSFeeds     []string
	FetchTimeout time.Duration
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr        string
	RefreshSchedule string
	NewsLimit       int
	AlertLimit      int
	DefaultPage     int
	MaxPage         int
}

// Retention configures the cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

var dotenvOnce sync.Once

// loadDotEnv populates missing variables from a .env file when present.
// Variables already set in the environment win.
func loadDotEnv() {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
}

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "news"),
		LexiconPath:        getEnv("LEXICON_PATH", ""),
	}
}

func loadKafka() (Kafka, error) {
	k := Kafka{
		KafkaBrokers:     splitAndTrim(getEnv("KAFKA_BROKERS", "kafka:9092")),
		KafkaNewsTopic:   getEnv("KAFKA_NEWS_TOPIC", "news_raw"),
		KafkaAlertsTopic: getEnv("KAFKA_ALERTS_TOPIC", "market_alerts"),
	}
	if len(k.KafkaBrokers) == 0 {
		return Kafka{}, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if k.KafkaNewsTopic == k.KafkaAlertsTopic {
		return Kafka{}, fmt.Errorf("KAFKA_NEWS_TOPIC and KAFKA_ALERTS_TOPIC must differ")
	}
	return k, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	loadDotEnv()

	k, err := loadKafka()
	if err != nil {
		return nil, err
	}

	c := &Worker{
		Common:         loadCommon(),
		Kafka:          k,
		KafkaConsumer:  getEnv("KAFKA_CONSUMER_GROUP", "news-worker"),
		TitleMaxWords:  getInt("WORKER_TITLE_MAX_WORDS", 12),
		DedupeCapacity: getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:      getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:      getInt("WORKER_BATCH_SIZE", 10),
	}

	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.TitleMaxWords < 0 {
		return nil, fmt.Errorf("WORKER_TITLE_MAX_WORDS cannot be negative")
	}

	return c, nil
}

// LoadPoller builds a Poller config from environment variables.
func LoadPoller() (*Poller, error) {
	loadDotEnv()

	k, err := loadKafka()
	if err != nil {
		return nil, err
	}

	c := &Poller{
		Kafka:        k,
		Schedule:     getEnv("POLLER_SCHEDULE", "@every 20s"),
		NewsAPIURL:   strings.TrimRight(getEnv("NEWS_API_URL", "https://finnhub.io/api/v1"), "/"),
		NewsAPIKey:   getEnv("NEWS_API_KEY", ""),
		NewsCategory: getEnv("NEWS_CATEGORY", "general"),
		RSSFeeds:     splitAndTrim(getEnv("POLLER_RSS_FEEDS", "")),
		FetchTimeout: getDuration("POLLER_FETCH_TIMEOUT", "10s"),
	}

	if len(c.RSSFeeds) == 0 && c.NewsAPIKey == "" {
		return nil, fmt.Errorf("NEWS_API_KEY is required when POLLER_RSS_FEEDS is empty")
	}
	if c.FetchTimeout <= 0 {
		return nil, fmt.Errorf("POLLER_FETCH_TIMEOUT must be positive")
	}

	return c, nil
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	loadDotEnv()

	c := &API{
		Common:          loadCommon(),
		BindAddr:        getEnv("API_BIND_ADDR", "0.0.0.0:8080"),
		RefreshSchedule: getEnv("API_REFRESH_SCHEDULE", "@every 20s"),
		NewsLimit:       getInt("API_NEWS_LIMIT", 50),
		AlertLimit:      getInt("API_ALERT_LIMIT", alerts.DefaultDisplayLimit),
		DefaultPage:     getInt("API_PAGE_SIZE", 20),
		MaxPage:         getInt("API_MAX_PAGE_SIZE", 100),
	}

	if c.NewsLimit <= 0 {
		return nil, fmt.Errorf("API_NEWS_LIMIT must be positive")
	}
	if c.AlertLimit <= 0 {
		return nil, fmt.Errorf("API_ALERT_LIMIT must be positive")
	}
	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	loadDotEnv()

	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_INTERVAL", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "168h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_INTERVAL must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err == nil {
		return d
	}
	fd, ferr := time.ParseDuration(fallback)
	if ferr != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, ferr))
	}
	return fd
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
