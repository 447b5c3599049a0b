// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package rank implements the "For You" feed ordering for the catalog.
//
// The Ranker takes a candidate list, scores each entry with a weighted
// combination of recency, engagement, diversity, unseen and random
// components, then produces a weighted random permutation: higher-scored
// items are more likely, but never certain, to appear earlier. A computed
// ordering is cached per key so a session replays the same feed until the
// entry expires, the caller forces a refresh, or the cache is cleared.
//
// # Collaborators
//
// The package owns no I/O. History lookup and ordering persistence are
// injected through the HistoryProvider and Store interfaces:
//
//	ranker, err := rank.NewRanker(rank.DefaultConfig(), history, store, logger)
//	ordered, replayed, err := ranker.Rank(ctx, candidates, "feed:"+userID, false)
//
// A history failure fails the whole call with ErrHistoryUnavailable; a
// cache failure is absorbed and degrades to recomputation.
//
// # Thread Safety
//
// Ranker is safe for concurrent use. The injected random source is
// guarded by a mutex; cache writes are last-write-wins.
package rank
