// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package supervisor builds the suture supervision tree that keeps the
// HTTP server and the cache janitor running, restarting them with
// backoff when they fail.
package supervisor
