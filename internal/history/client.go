// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package history

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/bhaktistream/feedrank/internal/metrics"
	"github.com/bhaktistream/feedrank/internal/rank"
)

// ClientConfig configures the backend history client.
type ClientConfig struct {
	// BaseURL is the backend REST root, e.g. https://x.backend.co.
	BaseURL string

	// APIKey authenticates against the backend.
	APIKey string

	// UserID is the default listener when the context carries none.
	// Leave empty in the multi-user service; WithUser scopes each call.
	UserID string

	// Limit caps how many recent entries are fetched. Default: 100.
	Limit int

	// Timeout bounds a single request. Default: 10s.
	Timeout time.Duration

	// RequestsPerSecond throttles calls to the backend. Default: 10.
	RequestsPerSecond float64

	// Burst is the limiter burst size. Default: 5.
	Burst int
}

// historyRow is one backend playback_history record.
type historyRow struct {
	RecordingID string `json:"recording_id"`
}

// Client fetches playback history from the backend. It implements
// rank.HistoryProvider and is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	userID  string
	limit   int

	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]string]
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a history client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 100
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 5
	}

	componentLogger := logger.With().Str("component", "history").Logger()

	breaker := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:    "history-backend",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			componentLogger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		userID:     cfg.UserID,
		limit:      cfg.Limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     componentLogger,
	}
}

// Recent returns identifiers of recently played recordings, most recent
// first. The listener comes from the context (WithUser) or falls back to
// the configured default. Any failure wraps rank.ErrHistoryUnavailable.
func (c *Client) Recent(ctx context.Context) ([]string, error) {
	userID, ok := UserFromContext(ctx)
	if !ok {
		userID = c.userID
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: no user in context or config", rank.ErrHistoryUnavailable)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit wait: %w", rank.ErrHistoryUnavailable, err)
	}

	start := time.Now()
	ids, err := c.breaker.Execute(func() ([]string, error) {
		return c.fetch(ctx, userID)
	})
	metrics.RecordBackendRequest("history", time.Since(start), err)
	if err != nil {
		c.logger.Warn().Err(err).Msg("history fetch failed")
		return nil, fmt.Errorf("%w: %w", rank.ErrHistoryUnavailable, err)
	}

	return ids, nil
}

// fetch performs one backend request.
func (c *Client) fetch(ctx context.Context, userID string) ([]string, error) {
	reqURL, err := c.buildURL(userID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("backend returned %d: %s", resp.StatusCode, body)
	}

	var rows []historyRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.RecordingID != "" {
			ids = append(ids, row.RecordingID)
		}
	}
	return ids, nil
}

// buildURL assembles the history query.
func (c *Client) buildURL(userID string) (string, error) {
	u, err := url.Parse(c.baseURL + "/rest/v1/playback_history")
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	q := u.Query()
	q.Set("select", "recording_id")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "played_at.desc")
	q.Set("limit", strconv.Itoa(c.limit))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Ensure Client implements the provider interface.
var _ rank.HistoryProvider = (*Client)(nil)
