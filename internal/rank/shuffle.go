// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"math"
	"sort"
)

// weightedShuffle produces a randomized permutation biased by score.
//
// It implements Efraimidis-Spirakis weighted sampling without
// replacement: each item draws a key u^(1/w) for uniform u in (0,1) and
// weight w, and items are ordered by descending key. Higher-weighted
// items are more likely, but not certain, to sort earlier, and the
// result is always a full permutation of the input.
//
// Epsilon is added to every score so a score-zero item keeps a non-zero
// selection probability instead of being starved to the tail.
//
// Reference:
// Efraimidis, P. S., & Spirakis, P. G. (2006). "Weighted random sampling
// with a reservoir." Information Processing Letters, 97(5).
func (r *Ranker) weightedShuffle(scored []scoredCandidate) []Candidate {
	type keyed struct {
		candidate Candidate
		key       float64
	}

	keys := make([]keyed, 0, len(scored))
	for i := range scored {
		weight := scored[i].score + r.config.Epsilon

		// Guard the open interval: u must be in (0,1) or the key
		// degenerates to 0 or 1 for every weight.
		u := r.randFloat()
		for u == 0 {
			u = r.randFloat()
		}

		keys = append(keys, keyed{
			candidate: scored[i].candidate,
			key:       math.Pow(u, 1.0/weight),
		})
	}

	sort.Slice(keys, func(i, j int) bool {
		return keys[i].key > keys[j].key
	})

	ordered := make([]Candidate, len(keys))
	for i, k := range keys {
		ordered[i] = k.candidate
	}
	return ordered
}
