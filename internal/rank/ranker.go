// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Ranker produces personalized orderings of catalog candidates.
// It is safe for concurrent use.
type Ranker struct {
	config *Config
	logger zerolog.Logger

	history HistoryProvider
	store   Store

	// Random source for determinism (protected by rngMu for concurrent access)
	rng   *rand.Rand
	rngMu sync.Mutex

	// now is swapped in tests to drive TTL expiry.
	now func() time.Time

	// Metrics
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewRanker creates a new Ranker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRanker(cfg *Config, history HistoryProvider, store Store, logger zerolog.Logger) (*Ranker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if history == nil {
		return nil, fmt.Errorf("history provider not set")
	}
	if store == nil {
		return nil, fmt.Errorf("cache store not set")
	}

	// Use provided seed or default for determinism
	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Ranker{
		config:  cfg,
		logger:  logger.With().Str("component", "rank").Logger(),
		history: history,
		store:   store,
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // math/rand is fine for feed shuffling
		now:     time.Now,
	}, nil
}

// Rank returns the candidates permuted into a personalized ordering.
// The replayed result reports whether a cached ordering was served
// instead of a fresh computation.
//
// A valid cached ordering for cacheKey replays exactly unless
// forceRefresh is set. On a miss the consumption history is fetched, the
// candidates are scored and weighted-shuffled, and the result becomes
// the new cache entry. The output is always a permutation of the input;
// an empty input returns an empty slice without touching collaborators.
//
// A history failure fails the call with ErrHistoryUnavailable. Cache
// failures are absorbed: a failed read counts as a miss and a failed
// write leaves the fresh ordering uncached.
func (r *Ranker) Rank(ctx context.Context, candidates []Candidate, cacheKey string, forceRefresh bool) (ordered []Candidate, replayed bool, err error) {
	if len(candidates) == 0 {
		return []Candidate{}, false, nil
	}

	logger := r.logger.With().
		Str("cache_key", cacheKey).
		Int("candidates", len(candidates)).
		Bool("force_refresh", forceRefresh).
		Logger()

	if !forceRefresh {
		if cached, ok := r.replayCached(ctx, cacheKey, candidates, logger); ok {
			r.cacheHits.Add(1)
			logger.Debug().Msg("cache hit, replaying session ordering")
			return cached, true, nil
		}
		r.cacheMisses.Add(1)
	}

	historyIDs, err := r.fetchHistory(ctx)
	if err != nil {
		return nil, false, err
	}

	ordered = r.compute(candidates, historyIDs)

	entry := Entry{
		OrderedIDs: orderedIDs(ordered),
		CreatedAt:  r.now(),
	}
	if err := r.store.Set(ctx, cacheKey, entry); err != nil {
		// Best effort: an uncached ordering just recomputes next call.
		logger.Warn().Err(err).Msg("failed to persist ordering")
	}

	logger.Debug().
		Int("history", len(historyIDs)).
		Msg("computed fresh ordering")

	return ordered, false, nil
}

// Invalidate clears the cached ordering for cacheKey, forcing the next
// Rank call to compute fresh.
func (r *Ranker) Invalidate(ctx context.Context, cacheKey string) error {
	if err := r.store.Clear(ctx, cacheKey); err != nil {
		return fmt.Errorf("clear cache entry: %w", err)
	}
	return nil
}

// CacheHits returns the number of served cache replays.
func (r *Ranker) CacheHits() int64 {
	return r.cacheHits.Load()
}

// CacheMisses returns the number of cache misses.
func (r *Ranker) CacheMisses() int64 {
	return r.cacheMisses.Load()
}

// Config returns a copy of the current configuration.
func (r *Ranker) Config() *Config {
	return r.config.Clone()
}

// replayCached returns the cached ordering applied to candidates, or
// false when the entry is absent, expired, unreadable, or no longer
// covers the candidate set.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func (r *Ranker) replayCached(ctx context.Context, cacheKey string, candidates []Candidate, logger zerolog.Logger) ([]Candidate, bool) {
	entry, ok, err := r.store.Get(ctx, cacheKey)
	if err != nil {
		// Cache trouble is non-fatal: degrade to recomputation.
		logger.Warn().Err(err).Msg("cache read failed, treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	if r.now().Sub(entry.CreatedAt) >= r.config.CacheTTL {
		logger.Debug().Time("created_at", entry.CreatedAt).Msg("cached ordering is stale")
		return nil, false
	}

	ordered, ok := applyOrdering(entry.OrderedIDs, candidates)
	if !ok {
		// The catalog changed since the entry was computed; replaying
		// it would drop or duplicate items.
		logger.Debug().Msg("cached ordering no longer covers candidate set")
		return nil, false
	}

	return ordered, true
}

// fetchHistory loads the consumption history as a lookup set.
func (r *Ranker) fetchHistory(ctx context.Context) (map[string]struct{}, error) {
	ids, err := r.history.Recent(ctx)
	if err != nil {
		if !errors.Is(err, ErrHistoryUnavailable) {
			err = fmt.Errorf("%w: %w", ErrHistoryUnavailable, err)
		}
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// compute scores the candidates and produces the weighted permutation.
func (r *Ranker) compute(candidates []Candidate, history map[string]struct{}) []Candidate {
	if len(candidates) == 1 {
		// Scoring a singleton cannot change the ordering.
		return []Candidate{candidates[0]}
	}

	scored := r.scoreCandidates(candidates, history, r.now())
	return r.weightedShuffle(scored)
}

// randFloat draws a uniform value in [0,1) from the injected source.
func (r *Ranker) randFloat() float64 {
	r.rngMu.Lock()
	defer r.rngMu.Unlock()
	return r.rng.Float64()
}

// applyOrdering rebuilds the candidate sequence described by ids.
// Returns false unless ids and candidates hold exactly the same
// identifier set.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func applyOrdering(ids []string, candidates []Candidate) ([]Candidate, bool) {
	if len(ids) != len(candidates) {
		return nil, false
	}

	byID := make(map[string]Candidate, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	if len(byID) != len(candidates) {
		// Duplicate IDs violate the input invariant; recompute rather
		// than replay something ambiguous.
		return nil, false
	}

	ordered := make([]Candidate, 0, len(ids))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			return nil, false
		}
		ordered = append(ordered, c)
	}
	return ordered, true
}

// orderedIDs extracts the identifier sequence of an ordering.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func orderedIDs(ordered []Candidate) []string {
	ids := make([]string, len(ordered))
	for i, c := range ordered {
		ids[i] = c.ID
	}
	return ids
}
