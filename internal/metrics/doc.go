// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package metrics exposes Prometheus instrumentation for ranking,
// the ordering cache, backend clients, and the HTTP API. Metrics are
// registered on the default registry and served by Handler.
package metrics
