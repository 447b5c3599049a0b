// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package history

import "context"

// userKey is the context key for the request-scoped user ID.
type userKey struct{}

// WithUser returns a context carrying the listener whose history should
// be fetched. The API layer sets this per request; the ranker passes the
// context through untouched.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// UserFromContext extracts the request-scoped user ID, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey{}).(string)
	return id, ok && id != ""
}
