// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package catalog

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
	"golang.org/x/time/rate"

	"github.com/bhaktistream/feedrank/internal/metrics"
	"github.com/bhaktistream/feedrank/internal/rank"
	"github.com/bhaktistream/feedrank/internal/validation"
)

// ClientConfig configures the backend catalog client.
type ClientConfig struct {
	// BaseURL is the backend REST root.
	BaseURL string

	// APIKey authenticates against the backend.
	APIKey string

	// Limit caps how many recordings are fetched per call. Default: 500.
	Limit int

	// Timeout bounds a single request. Default: 10s.
	Timeout time.Duration

	// RequestsPerSecond throttles calls to the backend. Default: 10.
	RequestsPerSecond float64

	// Burst is the limiter burst size. Default: 5.
	Burst int
}

// recordingRow is one backend recordings record.
type recordingRow struct {
	ID         string    `json:"id" validate:"required"`
	Title      string    `json:"title"`
	Channel    string    `json:"channel" validate:"required"`
	Plays      int64     `json:"plays" validate:"gte=0"`
	UploadedAt time.Time `json:"uploaded_at" validate:"required"`
}

// Client fetches catalog recordings from the backend.
// It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	limit   int

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// NewClient creates a catalog client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg ClientConfig, logger zerolog.Logger) *Client {
	if cfg.Limit <= 0 {
		cfg.Limit = 500
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

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limit:      cfg.Limit,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		logger:     logger.With().Str("component", "catalog").Logger(),
	}
}

// Recordings returns the rankable catalog entries, newest first.
// Malformed rows are dropped with a warning.
func (c *Client) Recordings(ctx context.Context) ([]rank.Candidate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	rows, err := c.fetch(ctx)
	metrics.RecordBackendRequest("catalog", time.Since(start), err)
	if err != nil {
		return nil, err
	}

	candidates := make([]rank.Candidate, 0, len(rows))
	for i := range rows {
		if err := validation.ValidateStruct(&rows[i]); err != nil {
			c.logger.Warn().
				Str("id", rows[i].ID).
				Err(err).
				Msg("dropping malformed recording row")
			continue
		}
		candidates = append(candidates, rank.Candidate{
			ID:         rows[i].ID,
			Title:      rows[i].Title,
			Channel:    rows[i].Channel,
			Plays:      rows[i].Plays,
			UploadedAt: rows[i].UploadedAt,
		})
	}

	return candidates, nil
}

// fetch performs one backend request.
func (c *Client) fetch(ctx context.Context) ([]recordingRow, error) {
	u, err := url.Parse(c.baseURL + "/rest/v1/recordings")
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	q := u.Query()
	q.Set("select", "id,title,channel,plays,uploaded_at")
	q.Set("order", "uploaded_at.desc")
	q.Set("limit", strconv.Itoa(c.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
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

	var rows []recordingRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return rows, nil
}
