// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package api provides the HTTP surface for the feed ranking service
// using the chi router.
//
// Routes:
//
//	GET    /api/v1/feed        - personalized feed for the X-User-ID caller
//	DELETE /api/v1/feed/cache  - drop the caller's cached ordering
//	GET    /healthz            - liveness probe
//	GET    /metrics            - Prometheus scrape endpoint
package api
