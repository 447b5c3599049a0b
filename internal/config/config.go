// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package config loads feedrank configuration from layered sources:
// built-in defaults, an optional YAML file, then environment variables
// with the FEEDRANK_ prefix (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/bhaktistream/feedrank/internal/rank"
)

// Config is the full feedrank service configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Backend BackendConfig `koanf:"backend"`
	Ranker  RankerConfig  `koanf:"ranker"`
	Cache   CacheConfig   `koanf:"cache"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8642".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful shutdown. Default: 10s.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// RateLimit is the per-IP request budget per RateWindow.
	// Default: 60.
	RateLimit int `koanf:"rate_limit"`

	// RateWindow is the rate limit window. Default: 1m.
	RateWindow time.Duration `koanf:"rate_window"`

	// CORSOrigins lists allowed origins. Default: ["*"].
	CORSOrigins []string `koanf:"cors_origins"`
}

// BackendConfig configures the hosted backend clients.
type BackendConfig struct {
	// URL is the backend REST root. Required.
	URL string `koanf:"url"`

	// APIKey authenticates against the backend. Required.
	APIKey string `koanf:"api_key"`

	// Timeout bounds a single backend request. Default: 10s.
	Timeout time.Duration `koanf:"timeout"`

	// HistoryLimit caps fetched history entries. Default: 100.
	HistoryLimit int `koanf:"history_limit"`

	// CatalogLimit caps fetched recordings. Default: 500.
	CatalogLimit int `koanf:"catalog_limit"`

	// RequestsPerSecond throttles backend calls. Default: 10.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// Burst is the limiter burst size. Default: 5.
	Burst int `koanf:"burst"`
}

// RankerConfig configures the feed ranker.
type RankerConfig struct {
	Weights rank.Weights `koanf:"weights"`

	// RecencyHalfLife is the age at which recency scores 0.5.
	// Default: 720h.
	RecencyHalfLife time.Duration `koanf:"recency_half_life"`

	// Epsilon is the shuffle starvation floor. Default: 0.05.
	Epsilon float64 `koanf:"epsilon"`

	// CacheTTL is the session ordering lifetime. Default: 1h.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// Seed is the random seed; zero means the built-in default.
	Seed int64 `koanf:"seed"`
}

// CacheConfig configures the ordering store.
type CacheConfig struct {
	// Type selects the store: memory or badger. Default: memory.
	Type string `koanf:"type"`

	// Path is the badger directory. Required when Type is badger.
	Path string `koanf:"path"`

	// Retention bounds how long dead entries occupy space.
	// Default: 24h.
	Retention time.Duration `koanf:"retention"`

	// SweepInterval is how often the memory janitor runs. Default: 5m.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum level. Default: info.
	Level string `koanf:"level"`

	// Format is json or console. Default: json.
	Format string `koanf:"format"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	rankerDefaults := rank.DefaultConfig()
	return &Config{
		Server: ServerConfig{
			Addr:            ":8642",
			ShutdownTimeout: 10 * time.Second,
			RateLimit:       60,
			RateWindow:      time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Backend: BackendConfig{
			Timeout:           10 * time.Second,
			HistoryLimit:      100,
			CatalogLimit:      500,
			RequestsPerSecond: 10,
			Burst:             5,
		},
		Ranker: RankerConfig{
			Weights:         rankerDefaults.Weights,
			RecencyHalfLife: rankerDefaults.RecencyHalfLife,
			Epsilon:         rankerDefaults.Epsilon,
			CacheTTL:        rankerDefaults.CacheTTL,
			Seed:            rankerDefaults.Seed,
		},
		Cache: CacheConfig{
			Type:          "memory",
			Retention:     24 * time.Hour,
			SweepInterval: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// RankConfig converts the ranker section into the rank package's
// configuration type.
func (c *Config) RankConfig() *rank.Config {
	return &rank.Config{
		Weights:         c.Ranker.Weights,
		RecencyHalfLife: c.Ranker.RecencyHalfLife,
		Epsilon:         c.Ranker.Epsilon,
		CacheTTL:        c.Ranker.CacheTTL,
		Seed:            c.Ranker.Seed,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if c.Server.RateLimit < 1 {
		return fmt.Errorf("server.rate_limit must be positive, got %d", c.Server.RateLimit)
	}
	if c.Server.RateWindow <= 0 {
		return fmt.Errorf("server.rate_window must be positive, got %v", c.Server.RateWindow)
	}

	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Backend.APIKey == "" {
		return fmt.Errorf("backend.api_key is required")
	}
	if c.Backend.HistoryLimit < 1 {
		return fmt.Errorf("backend.history_limit must be positive, got %d", c.Backend.HistoryLimit)
	}
	if c.Backend.CatalogLimit < 1 {
		return fmt.Errorf("backend.catalog_limit must be positive, got %d", c.Backend.CatalogLimit)
	}

	if err := c.RankConfig().Validate(); err != nil {
		return fmt.Errorf("ranker: %w", err)
	}

	switch c.Cache.Type {
	case "memory":
	case "badger":
		if c.Cache.Path == "" {
			return fmt.Errorf("cache.path is required for the badger store")
		}
	default:
		return fmt.Errorf("cache.type must be memory or badger, got %q", c.Cache.Type)
	}
	if c.Cache.Retention < c.Ranker.CacheTTL {
		return fmt.Errorf("cache.retention %v must not undercut ranker cache_ttl %v", c.Cache.Retention, c.Ranker.CacheTTL)
	}

	return nil
}
