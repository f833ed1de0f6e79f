package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/DeafMist/market-pulse/backend/internal/alerts"
	"github.com/DeafMist/market-pulse/backend/internal/config"
	"github.com/DeafMist/market-pulse/backend/internal/elasticsearch"
	"github.com/DeafMist/market-pulse/backend/internal/models"
	"github.com/DeafMist/market-pulse/backend/internal/newsfeed"
	"github.com/DeafMist/market-pulse/backend/internal/sentiment"
)

const (
	maxClassifyBody = 1 << 20
	maxAlertLimit   = 100
)

type newsStore interface {
	Health(ctx context.Context) error
	SearchNews(ctx context.Context, params elasticsearch.SearchParams) (*elasticsearch.SearchResult, error)
}

type server struct {
	log      *slog.Logger
	cfg      *config.API
	es       newsStore
	source   newsfeed.Source
	scorer   *sentiment.Scorer
	detector *alerts.Detector
	board    *alerts.Board
	now      func() time.Time
}

type errorResponse struct {
	Error string `json:"error"`
}

type refreshResponse struct {
	News        int       `json:"news"`
	Alerts      int       `json:"alerts"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

type classifyResponse struct {
	RequestID string              `json:"request_id"`
	News      []models.ScoredNews `json:"news"`
	Alerts    []alerts.View       `json:"alerts"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/news", s.handleNews)
	r.Get("/search", s.handleSearch)
	r.Post("/classify", s.handleClassify)
	r.Post("/refresh", s.handleRefresh)
	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", s.handleAlerts)
		r.Delete("/{id}", s.handleDismiss)
	})
	return r
}

// refresh reloads the news batch, classifies it and replaces the board.
// Overlapping calls are allowed; the last one to finish wins.
func (s *server) refresh(ctx context.Context) refreshResponse {
	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items, err := s.source.Fetch(fetchCtx)
	if err != nil {
		// the fallback never fails, so this only happens on a misconfigured source
		s.log.Error("refresh news", slog.Any("err", err))
		items = nil
	}

	scored := s.scorer.Annotate(items)
	detected := s.detector.Detect(items)
	at := s.now()
	s.board.Replace(scored, detected, at)

	s.log.Debug("board refreshed", slog.Int("news", len(scored)), slog.Int("alerts", len(detected)))
	return refreshResponse{News: len(scored), Alerts: len(detected), RefreshedAt: at}
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.es.Health(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"refreshed_at": s.board.RefreshedAt(),
	})
}

func (s *server) handleNews(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))
	label := models.SentimentLabel(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sentiment"))))

	news := s.board.News()
	out := make([]models.ScoredNews, 0, len(news))
	for _, n := range news {
		if category != "" && n.Category != category {
			continue
		}
		if label != "" && n.Sentiment.Label != label {
			continue
		}
		out = append(out, n)
	}

	writeJSON(w, http.StatusOK, out)
}

// handleAlerts lists board alerts in display order. limit=0 asks for all of
// them, still capped at maxAlertLimit.
func (s *server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := clampInt(q.Get("limit"), s.cfg.AlertLimit, maxAlertLimit)
	if strings.TrimSpace(q.Get("limit")) == "0" {
		limit = maxAlertLimit
	}

	list := s.board.Alerts(0)
	if raw := strings.TrimSpace(q.Get("impact")); raw != "" {
		impact := models.Impact(strings.ToLower(raw))
		if !impact.Valid() {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "impact must be high, medium or low"})
			return
		}
		list = slices.DeleteFunc(list, func(a models.MarketAlert) bool { return a.Impact != impact })
	}

	writeJSON(w, http.StatusOK, alerts.Views(alerts.Top(list, limit)))
}

func (s *server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.board.Dismiss(id) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "alert not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.refresh(r.Context()))
}

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var records []models.NewsRecord
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClassifyBody))
	if err := dec.Decode(&records); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be a JSON array of news items"})
		return
	}
	items := models.Items(records)

	writeJSON(w, http.StatusOK, classifyResponse{
		RequestID: uuid.NewString(),
		News:      s.scorer.Annotate(items),
		Alerts:    alerts.Views(s.detector.Detect(items)),
	})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()
	params := elasticsearch.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.TrimSpace(q.Get("category")),
		Source:   strings.TrimSpace(q.Get("source")),
		From:     clampInt(q.Get("from"), 0, 10_000),
		Size:     clampInt(q.Get("size"), s.cfg.DefaultPage, s.cfg.MaxPage),
		Sort:     strings.TrimSpace(q.Get("sort")),
		Start:    parseTime(q.Get("start")),
		End:      parseTime(q.Get("end")),
	}

	result, err := s.es.SearchNews(ctx, params)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func parseTime(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return &ts
	}
	return nil
}

func clampInt(raw string, fallback, max int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > max {
		return max
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
