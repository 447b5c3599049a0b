// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"math"
	"time"
)

// scoreCandidates computes the composite score for every candidate.
//
// Each component is normalized to [0,1] and combined with the normalized
// weights, so the composite also lands in [0,1]. The random component is
// freshly drawn per candidate per computation.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func (r *Ranker) scoreCandidates(candidates []Candidate, history map[string]struct{}, now time.Time) []scoredCandidate {
	weights := r.config.Weights.Normalize()

	maxPlays := maxPlayCount(candidates)
	channelCounts := countChannels(candidates)
	maxChannel := maxChannelCount(channelCounts)

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		recency := recencyScore(now.Sub(c.UploadedAt), r.config.RecencyHalfLife)
		engagement := engagementScore(c.Plays, maxPlays)
		diversity := diversityScore(channelCounts[c.Channel], maxChannel)
		unseen := unseenScore(c.ID, history)
		random := r.randFloat()

		composite := weights.Recency*recency +
			weights.Engagement*engagement +
			weights.Diversity*diversity +
			weights.Unseen*unseen +
			weights.Random*random

		scored = append(scored, scoredCandidate{
			candidate: c,
			score:     composite,
			components: map[string]float64{
				"recency":    recency,
				"engagement": engagement,
				"diversity":  diversity,
				"unseen":     unseen,
				"random":     random,
			},
		})
	}

	return scored
}

// recencyScore applies exponential decay to the candidate's age.
// A candidate exactly one half-life old scores 0.5; future timestamps
// clamp to 1.0.
func recencyScore(age, halfLife time.Duration) float64 {
	if age <= 0 {
		return 1.0
	}
	return math.Exp2(-age.Hours() / halfLife.Hours())
}

// engagementScore normalizes the play count by the most-played candidate
// in the set. An all-zero set scores 0 for every candidate.
func engagementScore(plays, maxPlays int64) float64 {
	if maxPlays <= 0 || plays <= 0 {
		return 0.0
	}
	return float64(plays) / float64(maxPlays)
}

// diversityScore penalizes channels that dominate the candidate set.
// The channel's frequency is normalized by the most frequent channel:
// next to a channel holding 50 of 100 items, a channel holding 1 scores
// 0.98 while the dominant one scores 0.0. When no channel repeats, every
// candidate is maximally diverse and scores 1.0.
func diversityScore(channelCount, maxChannelCount int) float64 {
	if maxChannelCount <= 0 {
		return 0.0
	}
	if maxChannelCount == 1 {
		return 1.0
	}
	return 1.0 - float64(channelCount)/float64(maxChannelCount)
}

// unseenScore is binary: 1.0 when the candidate is absent from the
// history, 0.0 when present. No partial credit.
func unseenScore(id string, history map[string]struct{}) float64 {
	if _, seen := history[id]; seen {
		return 0.0
	}
	return 1.0
}

// maxPlayCount returns the highest play count in the candidate set.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func maxPlayCount(candidates []Candidate) int64 {
	var maxPlays int64
	for _, c := range candidates {
		if c.Plays > maxPlays {
			maxPlays = c.Plays
		}
	}
	return maxPlays
}

// countChannels counts how many candidates each channel contributes.
//
//nolint:gocritic // rangeValCopy: Candidate passed by value in range, acceptable for clarity
func countChannels(candidates []Candidate) map[string]int {
	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c.Channel]++
	}
	return counts
}

// maxChannelCount returns the size of the largest channel.
func maxChannelCount(counts map[string]int) int {
	most := 0
	for _, n := range counts {
		if n > most {
			most = n
		}
	}
	return most
}
