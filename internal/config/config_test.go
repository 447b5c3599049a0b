// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// setRequiredEnv provides the backend credentials every Load call needs
// to pass validation.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FEEDRANK_BACKEND_URL", "https://backend.example.com")
	t.Setenv("FEEDRANK_BACKEND_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":8642" {
		t.Errorf("Server.Addr = %q, want :8642", cfg.Server.Addr)
	}
	if cfg.Ranker.CacheTTL != time.Hour {
		t.Errorf("Ranker.CacheTTL = %v, want 1h", cfg.Ranker.CacheTTL)
	}
	if cfg.Ranker.Weights.Engagement != 0.30 {
		t.Errorf("Weights.Engagement = %v, want 0.30", cfg.Ranker.Weights.Engagement)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("Cache.Type = %q, want memory", cfg.Cache.Type)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoadMissingBackendFails(t *testing.T) {
	if _, err := Load(); err == nil {
		t.Fatal("expected validation error without backend.url, got nil")
	} else if !strings.Contains(err.Error(), "backend.url") {
		t.Errorf("error = %v, want mention of backend.url", err)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FEEDRANK_RANKER_CACHE_TTL", "30m")
	t.Setenv("FEEDRANK_RANKER_WEIGHT_RANDOM", "0.2")
	t.Setenv("FEEDRANK_SERVER_CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Ranker.CacheTTL != 30*time.Minute {
		t.Errorf("Ranker.CacheTTL = %v, want 30m", cfg.Ranker.CacheTTL)
	}
	if cfg.Ranker.Weights.Random != 0.2 {
		t.Errorf("Weights.Random = %v, want 0.2", cfg.Ranker.Weights.Random)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[0] != want[0] || cfg.Server.CORSOrigins[1] != want[1] {
		t.Errorf("Server.CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
}

func TestLoadConfigFile(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "feedrank.yaml")
	content := []byte("server:\n  addr: \":9000\"\nranker:\n  epsilon: 0.1\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if cfg.Ranker.Epsilon != 0.1 {
		t.Errorf("Ranker.Epsilon = %v, want 0.1", cfg.Ranker.Epsilon)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "feedrank.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("FEEDRANK_LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error (env over file)", cfg.Logging.Level)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"FEEDRANK_BACKEND_URL", "backend.url"},
		{"FEEDRANK_RANKER_CACHE_TTL", "ranker.cache_ttl"},
		{"FEEDRANK_RANKER_WEIGHT_UNSEEN", "ranker.weights.unseen"},
		{"FEEDRANK_LOG_LEVEL", "logging.level"},
		{"FEEDRANK_CACHE_SWEEP_INTERVAL", "cache.sweep_interval"},

		// Unknown variables are ignored.
		{"PATH", ""},
		{"HOME", ""},
		{"FEEDRANK_UNKNOWN", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Backend.URL = "https://backend.example.com"
		cfg.Backend.APIKey = "k"
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero rate limit", func(c *Config) { c.Server.RateLimit = 0 }, "server.rate_limit"},
		{"missing api key", func(c *Config) { c.Backend.APIKey = "" }, "backend.api_key"},
		{"zero history limit", func(c *Config) { c.Backend.HistoryLimit = 0 }, "backend.history_limit"},
		{"bad weights", func(c *Config) { c.Ranker.Weights.Recency = -1 }, "ranker"},
		{"unknown cache type", func(c *Config) { c.Cache.Type = "redis" }, "cache.type"},
		{"badger without path", func(c *Config) { c.Cache.Type = "badger" }, "cache.path"},
		{"retention under ttl", func(c *Config) { c.Cache.Retention = time.Minute }, "cache.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline config invalid: %v", err)
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("{}"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv(ConfigPathEnvVar, path)
	if got := findConfigFile(); got != path {
		t.Errorf("findConfigFile() = %q, want %q", got, path)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "missing.yaml"))
	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty for missing file", got)
	}
}
