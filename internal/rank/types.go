// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"context"
	"time"
)

// Candidate is one rankable catalog entry.
//
// The Ranker only reads these fields; it never mutates a Candidate and
// returns a reordered copy of the input slice. IDs must be unique within
// a single Rank call.
type Candidate struct {
	// ID is the opaque recording identifier.
	ID string `json:"id"`

	// Title is the recording title. Not used for scoring; carried for
	// callers that render the ordered feed directly.
	Title string `json:"title"`

	// Channel identifies the source channel, used for diversity scoring.
	Channel string `json:"channel"`

	// Plays is the non-negative popularity count.
	Plays int64 `json:"plays"`

	// UploadedAt is the upload timestamp, used for recency scoring.
	UploadedAt time.Time `json:"uploaded_at"`
}

// scoredCandidate pairs a Candidate with its composite score.
// Created transiently per fresh computation and discarded after the
// output ordering is produced.
type scoredCandidate struct {
	candidate Candidate

	// score is the weighted sum of the five components, in [0,1].
	score float64

	// components keeps the per-component breakdown for debug logging.
	components map[string]float64
}

// Entry is a previously computed ordering stored by a Store.
//
// An entry is valid while now - CreatedAt < Config.CacheTTL. The Ranker
// owns that check; stores only persist and return entries.
type Entry struct {
	// OrderedIDs is the candidate identifier sequence of the ordering.
	OrderedIDs []string `json:"ordered_ids"`

	// CreatedAt is when the ordering was computed.
	CreatedAt time.Time `json:"created_at"`
}

// HistoryProvider yields identifiers of recently consumed recordings,
// most recent first. Implementations are expected to bound the result
// (the backend returns at most ~100 entries); the Ranker treats whatever
// it receives as the complete relevant history.
type HistoryProvider interface {
	Recent(ctx context.Context) ([]string, error)
}

// Store persists computed orderings keyed by caller-defined cache keys.
//
// Stores are plain key-value providers with last-write-wins semantics;
// no transactional guarantees are required. Get returns false when no
// entry exists for the key.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, entry Entry) error
	Clear(ctx context.Context, key string) error
}
