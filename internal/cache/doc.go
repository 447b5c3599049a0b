// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

// Package cache provides rank.Store implementations for session
// orderings.
//
// Two stores are available:
//
//   - Memory: a thread-safe in-process map with hit/miss statistics.
//     Pair it with a Janitor to sweep out entries past their retention.
//   - Badger: a persistent store backed by BadgerDB so session
//     orderings survive process restarts.
//
// Both stores are dumb key-value providers with last-write-wins
// semantics: the logical TTL check belongs to the ranker. Retention in
// this package only bounds how long dead entries occupy space.
package cache
