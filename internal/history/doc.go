// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package history fetches the caller's playback history from the hosted
// backend.
//
// The backend exposes the history as a REST collection; this package
// wraps it as a rank.HistoryProvider. Requests run through a circuit
// breaker so a flapping backend fails fast instead of piling up, and a
// rate limiter keeps the service inside the backend's request budget.
// Every failure mode surfaces as rank.ErrHistoryUnavailable: the ranker
// treats a missing history as fatal for the call, never as empty.
package history
