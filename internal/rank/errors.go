// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import "errors"

// ErrHistoryUnavailable reports that the history provider could not
// return the consumption history for a Rank call.
//
// The call fails rather than proceeding with an assumed-empty history:
// an ordering computed without the real history would look plausible but
// misrepresent personalization. Callers match with errors.Is and decide
// their own fallback (typically reverse-chronological).
var ErrHistoryUnavailable = errors.New("history unavailable")
