// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package cache

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper is the subset of Memory the janitor needs.
type Sweeper interface {
	Sweep(now time.Time) int
}

// Janitor periodically sweeps a store. It implements suture.Service so
// it runs under the supervisor tree rather than as a loose goroutine.
type Janitor struct {
	sweeper  Sweeper
	interval time.Duration
	logger   zerolog.Logger
}

// NewJanitor creates a janitor sweeping at the given interval.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewJanitor(sweeper Sweeper, interval time.Duration, logger zerolog.Logger) *Janitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Janitor{
		sweeper:  sweeper,
		interval: interval,
		logger:   logger.With().Str("component", "cache-janitor").Logger(),
	}
}

// Serve implements suture.Service. It blocks until the context is
// canceled, sweeping the store once per interval.
func (j *Janitor) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if evicted := j.sweeper.Sweep(now); evicted > 0 {
				j.logger.Debug().Int("evicted", evicted).Msg("swept stale orderings")
			}
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (j *Janitor) String() string {
	return "cache-janitor"
}
