// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/bhaktistream/feedrank/internal/metrics"
	"github.com/bhaktistream/feedrank/internal/rank"
)

// Stats tracks store performance counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Keys      int64
}

// Memory is a thread-safe in-process rank.Store.
//
// Entries live until overwritten, cleared, or swept by a Janitor once
// older than the configured retention.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string]rank.Entry
	retention time.Duration

	statsMu sync.Mutex
	stats   Stats
}

// NewMemory creates an empty in-memory store. Retention bounds how long
// an entry may sit before a sweep removes it; it should comfortably
// exceed the ranker's TTL so valid sessions are never swept away.
func NewMemory(retention time.Duration) *Memory {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Memory{
		entries:   make(map[string]rank.Entry),
		retention: retention,
	}
}

// Get retrieves the entry for key. It never fails.
func (m *Memory) Get(_ context.Context, key string) (rank.Entry, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	m.statsMu.Lock()
	if ok {
		m.stats.Hits++
	} else {
		m.stats.Misses++
	}
	m.statsMu.Unlock()

	if ok {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}

	return entry, ok, nil
}

// Set stores the entry under key, replacing any previous one.
func (m *Memory) Set(_ context.Context, key string, entry rank.Entry) error {
	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

// Clear removes the entry for key if present.
func (m *Memory) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Sweep removes entries created before now minus the retention and
// returns how many were evicted.
func (m *Memory) Sweep(now time.Time) int {
	cutoff := now.Add(-m.retention)

	m.mu.Lock()
	evicted := 0
	for key, entry := range m.entries {
		if entry.CreatedAt.Before(cutoff) {
			delete(m.entries, key)
			evicted++
		}
	}
	m.mu.Unlock()

	if evicted > 0 {
		m.statsMu.Lock()
		m.stats.Evictions += int64(evicted)
		m.statsMu.Unlock()
		metrics.CacheEvictions.Add(float64(evicted))
	}
	return evicted
}

// GetStats returns a snapshot of the store counters.
func (m *Memory) GetStats() Stats {
	m.mu.RLock()
	keys := int64(len(m.entries))
	m.mu.RUnlock()

	m.statsMu.Lock()
	s := m.stats
	m.statsMu.Unlock()

	s.Keys = keys
	return s
}

// HitRate returns the hit rate as a percentage.
func (m *Memory) HitRate() float64 {
	m.statsMu.Lock()
	defer m.statsMu.Unlock()

	total := m.stats.Hits + m.stats.Misses
	if total == 0 {
		return 0
	}
	return float64(m.stats.Hits) / float64(total) * 100
}

// Ensure Memory implements the store interface.
var _ rank.Store = (*Memory)(nil)
