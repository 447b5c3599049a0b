// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhaktistream/feedrank/internal/history"
	"github.com/bhaktistream/feedrank/internal/metrics"
	"github.com/bhaktistream/feedrank/internal/rank"
)

// FeedRanker produces a personalized ordering of catalog candidates.
// *rank.Ranker satisfies it.
type FeedRanker interface {
	Rank(ctx context.Context, candidates []rank.Candidate, cacheKey string, forceRefresh bool) (ordered []rank.Candidate, replayed bool, err error)
	Invalidate(ctx context.Context, cacheKey string) error
}

// CandidateSource supplies the rankable catalog. *catalog.Client
// satisfies it.
type CandidateSource interface {
	Recordings(ctx context.Context) ([]rank.Candidate, error)
}

// Handlers bundles the HTTP handlers and their collaborators.
type Handlers struct {
	ranker FeedRanker
	source CandidateSource
	logger zerolog.Logger
}

// NewHandlers creates the handler set.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHandlers(ranker FeedRanker, source CandidateSource, logger zerolog.Logger) *Handlers {
	return &Handlers{
		ranker: ranker,
		source: source,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// feedItem is one entry of the feed response.
type feedItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Channel    string    `json:"channel"`
	Plays      int64     `json:"plays"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// feedResponse is the payload of GET /api/v1/feed.
type feedResponse struct {
	UserID string     `json:"user_id"`
	Count  int        `json:"count"`
	Items  []feedItem `json:"items"`
}

// cacheKeyFor scopes cached orderings per user.
func cacheKeyFor(userID string) string {
	return "feed:" + userID
}

// Feed handles GET /api/v1/feed. The caller identifies itself with the
// X-User-ID header; ?refresh=true (or ?refresh=1) bypasses the cached
// ordering.
func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_user", "X-User-ID header is required", nil)
		return
	}
	refreshParam := r.URL.Query().Get("refresh")
	refresh := refreshParam == "true" || refreshParam == "1"

	ctx := history.WithUser(r.Context(), userID)

	candidates, err := h.source.Recordings(ctx)
	if err != nil {
		metrics.RecordRank("error", 0, 0)
		respondError(w, h.logger, http.StatusBadGateway, "catalog_unavailable", "failed to load the recording catalog", err)
		return
	}

	ranked, replayed, err := h.ranker.Rank(ctx, candidates, cacheKeyFor(userID), refresh)
	if err != nil {
		metrics.RecordRank("error", len(candidates), 0)
		if errors.Is(err, rank.ErrHistoryUnavailable) {
			respondError(w, h.logger, http.StatusBadGateway, "history_unavailable", "failed to load consumption history", err)
			return
		}
		respondError(w, h.logger, http.StatusInternalServerError, "rank_failed", "failed to rank the feed", err)
		return
	}

	outcome := "computed"
	switch {
	case refresh:
		outcome = "refreshed"
	case replayed:
		outcome = "replayed"
	}
	metrics.RecordRank(outcome, len(candidates), time.Since(start))

	items := make([]feedItem, len(ranked))
	for i, c := range ranked {
		items[i] = feedItem{
			ID:         c.ID,
			Title:      c.Title,
			Channel:    c.Channel,
			Plays:      c.Plays,
			UploadedAt: c.UploadedAt,
		}
	}

	h.logger.Debug().
		Str("user_id", userID).
		Int("count", len(items)).
		Bool("refresh", refresh).
		Dur("elapsed", time.Since(start)).
		Msg("feed served")

	respondJSON(w, h.logger, http.StatusOK, feedResponse{
		UserID: userID,
		Count:  len(items),
		Items:  items,
	})
}

// InvalidateCache handles DELETE /api/v1/feed/cache. It drops the
// caller's cached ordering so the next request recomputes.
func (h *Handlers) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_user", "X-User-ID header is required", nil)
		return
	}

	if err := h.ranker.Invalidate(r.Context(), cacheKeyFor(userID)); err != nil {
		respondError(w, h.logger, http.StatusInternalServerError, "invalidate_failed", "failed to drop the cached ordering", err)
		return
	}

	h.logger.Debug().Str("user_id", userID).Msg("cached ordering dropped")
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
