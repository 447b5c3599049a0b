// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package catalog fetches rankable recordings from the hosted backend.
//
// The backend's recordings collection is the candidate source for the
// ranker. Rows are validated structurally on the way in; a malformed
// row is dropped with a warning rather than poisoning the whole feed.
package catalog
