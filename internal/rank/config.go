// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"fmt"
	"time"
)

// Weights defines the relative contribution of each scoring component.
// Weights are normalized at runtime, so they don't need to sum to 1.0.
type Weights struct {
	// Recency rewards newer uploads (exponential age decay).
	Recency float64 `json:"recency" koanf:"recency"`

	// Engagement rewards popular recordings, normalized by the most
	// popular item in the candidate set.
	Engagement float64 `json:"engagement" koanf:"engagement"`

	// Diversity penalizes channels that dominate the candidate set.
	Diversity float64 `json:"diversity" koanf:"diversity"`

	// Unseen rewards recordings absent from the consumption history.
	Unseen float64 `json:"unseen" koanf:"unseen"`

	// Random is an independent uniform draw per candidate, the sole
	// source of variety across cache-refresh cycles on static data.
	Random float64 `json:"random" koanf:"random"`
}

// Normalize returns a copy with weights normalized to sum to 1.0.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) Normalize() Weights {
	sum := w.Recency + w.Engagement + w.Diversity + w.Unseen + w.Random

	if sum == 0 {
		const equalWeight = 1.0 / 5.0
		return Weights{
			Recency: equalWeight, Engagement: equalWeight, Diversity: equalWeight,
			Unseen: equalWeight, Random: equalWeight,
		}
	}

	return Weights{
		Recency:    w.Recency / sum,
		Engagement: w.Engagement / sum,
		Diversity:  w.Diversity / sum,
		Unseen:     w.Unseen / sum,
		Random:     w.Random / sum,
	}
}

// ToMap returns the weights as a string-keyed map.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		"recency":    w.Recency,
		"engagement": w.Engagement,
		"diversity":  w.Diversity,
		"unseen":     w.Unseen,
		"random":     w.Random,
	}
}

// Config contains all configuration for the Ranker.
type Config struct {
	// Weights defines the scoring component contributions.
	Weights Weights `json:"weights"`

	// RecencyHalfLife is the age at which the recency component scores
	// 0.5. Default: 720h (30 days).
	RecencyHalfLife time.Duration `json:"recency_half_life"`

	// Epsilon is added to every composite score during the weighted
	// shuffle so score-zero items keep a non-zero selection
	// probability. Default: 0.05.
	Epsilon float64 `json:"epsilon"`

	// CacheTTL is how long a computed ordering replays before it is
	// considered stale. Default: 1h.
	CacheTTL time.Duration `json:"cache_ttl"`

	// Seed is the random seed for deterministic behavior.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Recency:    0.25,
			Engagement: 0.30,
			Diversity:  0.20,
			Unseen:     0.15,
			Random:     0.10,
		},
		RecencyHalfLife: 30 * 24 * time.Hour,
		Epsilon:         0.05,
		CacheTTL:        time.Hour,
		Seed:            42,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.Recency < 0 {
		return fmt.Errorf("weights.recency must be non-negative, got %f", c.Weights.Recency)
	}
	if c.Weights.Engagement < 0 {
		return fmt.Errorf("weights.engagement must be non-negative, got %f", c.Weights.Engagement)
	}
	if c.Weights.Diversity < 0 {
		return fmt.Errorf("weights.diversity must be non-negative, got %f", c.Weights.Diversity)
	}
	if c.Weights.Unseen < 0 {
		return fmt.Errorf("weights.unseen must be non-negative, got %f", c.Weights.Unseen)
	}
	if c.Weights.Random < 0 {
		return fmt.Errorf("weights.random must be non-negative, got %f", c.Weights.Random)
	}

	if c.RecencyHalfLife <= 0 {
		return fmt.Errorf("recency_half_life must be positive, got %v", c.RecencyHalfLife)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive, got %f", c.Epsilon)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// Direct field copy - all fields are value types
	return &Config{
		Weights:         c.Weights,
		RecencyHalfLife: c.RecencyHalfLife,
		Epsilon:         c.Epsilon,
		CacheTTL:        c.CacheTTL,
		Seed:            c.Seed,
	}
}
