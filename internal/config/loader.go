// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable that overrides the
// config file search paths.
const ConfigPathEnvVar = "FEEDRANK_CONFIG"

// DefaultConfigPaths are searched in order when ConfigPathEnvVar is not
// set.
var DefaultConfigPaths = []string{
	"feedrank.yaml",
	"config/feedrank.yaml",
	"/etc/feedrank/config.yaml",
}

// Load builds the configuration from layered sources, lowest priority
// first:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. FEEDRANK_* environment variables
//
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to split slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, checking the
// env override before the default paths. Empty string means no file.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitSliceFields converts comma-separated strings from environment
// variables into proper string slices before unmarshaling.
func splitSliceFields(k *koanf.Koanf) error {
	for _, path := range []string{"server.cors_origins"} {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps FEEDRANK_* environment variable names (lowercased)
// to koanf config paths. An explicit table avoids guessing where the
// section ends in names like FEEDRANK_RANKER_CACHE_TTL.
var envMappings = map[string]string{
	"feedrank_server_addr":             "server.addr",
	"feedrank_server_shutdown_timeout": "server.shutdown_timeout",
	"feedrank_server_rate_limit":       "server.rate_limit",
	"feedrank_server_rate_window":      "server.rate_window",
	"feedrank_server_cors_origins":     "server.cors_origins",

	"feedrank_backend_url":                 "backend.url",
	"feedrank_backend_api_key":             "backend.api_key",
	"feedrank_backend_timeout":             "backend.timeout",
	"feedrank_backend_history_limit":       "backend.history_limit",
	"feedrank_backend_catalog_limit":       "backend.catalog_limit",
	"feedrank_backend_requests_per_second": "backend.requests_per_second",
	"feedrank_backend_burst":               "backend.burst",

	"feedrank_ranker_weight_recency":    "ranker.weights.recency",
	"feedrank_ranker_weight_engagement": "ranker.weights.engagement",
	"feedrank_ranker_weight_diversity":  "ranker.weights.diversity",
	"feedrank_ranker_weight_unseen":     "ranker.weights.unseen",
	"feedrank_ranker_weight_random":     "ranker.weights.random",
	"feedrank_ranker_recency_half_life": "ranker.recency_half_life",
	"feedrank_ranker_epsilon":           "ranker.epsilon",
	"feedrank_ranker_cache_ttl":         "ranker.cache_ttl",
	"feedrank_ranker_seed":              "ranker.seed",

	"feedrank_cache_type":           "cache.type",
	"feedrank_cache_path":           "cache.path",
	"feedrank_cache_retention":      "cache.retention",
	"feedrank_cache_sweep_interval": "cache.sweep_interval",

	"feedrank_log_level":  "logging.level",
	"feedrank_log_format": "logging.format",
}

// envTransformFunc maps an environment variable name to its koanf
// config path. Unknown variables return "" and are ignored.
//
// Examples:
//   - FEEDRANK_BACKEND_URL -> backend.url
//   - FEEDRANK_RANKER_CACHE_TTL -> ranker.cache_ttl
//   - FEEDRANK_LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
