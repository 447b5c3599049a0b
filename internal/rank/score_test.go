// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package rank

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func TestRecencyScore(t *testing.T) {
	halfLife := 30 * 24 * time.Hour

	tests := []struct {
		name string
		age  time.Duration
		want float64
	}{
		{"brand new", 0, 1.0},
		{"future timestamp clamps", -time.Hour, 1.0},
		{"one half-life scores mid-range", halfLife, 0.5},
		{"two half-lives", 2 * halfLife, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyScore(tt.age, halfLife)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("recencyScore(%v) = %f, want %f", tt.age, got, tt.want)
			}
		})
	}
}

func TestEngagementScore(t *testing.T) {
	tests := []struct {
		name     string
		plays    int64
		maxPlays int64
		want     float64
	}{
		{"most popular scores one", 500, 500, 1.0},
		{"half of max", 250, 500, 0.5},
		{"zero plays scores zero", 0, 500, 0.0},
		{"all-zero set scores zero", 0, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engagementScore(tt.plays, tt.maxPlays)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("engagementScore(%d, %d) = %f, want %f", tt.plays, tt.maxPlays, got, tt.want)
			}
		})
	}
}

func TestDiversityScore(t *testing.T) {
	tests := []struct {
		name            string
		channelCount    int
		maxChannelCount int
		want            float64
	}{
		{"rare channel scores high", 1, 50, 0.98},
		{"dominant channel scores zero", 50, 50, 0.0},
		{"half of the dominant scores half", 25, 50, 0.5},
		{"no repeated channels score full", 1, 1, 1.0},
		{"empty set scores zero", 0, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diversityScore(tt.channelCount, tt.maxChannelCount)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("diversityScore(%d, %d) = %f, want %f", tt.channelCount, tt.maxChannelCount, got, tt.want)
			}
		})
	}
}

func TestDiversityScoreDominantChannelAnchor(t *testing.T) {
	now := time.Now()

	// 50 of 100 candidates share one channel, the rest are unique.
	candidates := make([]Candidate, 0, 100)
	for i := 0; i < 50; i++ {
		candidates = append(candidates, Candidate{
			ID:         fmt.Sprintf("big-%02d", i),
			Channel:    "mega-channel",
			UploadedAt: now,
		})
	}
	for i := 0; i < 50; i++ {
		candidates = append(candidates, Candidate{
			ID:         fmt.Sprintf("small-%02d", i),
			Channel:    fmt.Sprintf("channel-%02d", i),
			UploadedAt: now,
		})
	}

	counts := countChannels(candidates)
	most := maxChannelCount(counts)

	if got := diversityScore(counts["mega-channel"], most); math.Abs(got) > 1e-9 {
		t.Errorf("channel holding half the set scored %f, want 0.0", got)
	}
	if got := diversityScore(counts["channel-00"], most); got < 0.9 {
		t.Errorf("channel holding 1 of 100 scored %f, want near 1.0", got)
	}
}

func TestUnseenScore(t *testing.T) {
	history := map[string]struct{}{"rec-1": {}}

	if got := unseenScore("rec-1", history); got != 0.0 {
		t.Errorf("seen candidate scored %f, want 0.0", got)
	}
	if got := unseenScore("rec-2", history); got != 1.0 {
		t.Errorf("unseen candidate scored %f, want 1.0", got)
	}
}

func TestScoreCandidatesCompositeRange(t *testing.T) {
	now := time.Now()
	candidates := makeCandidates(40, now)
	history := map[string]struct{}{"rec-003": {}, "rec-017": {}}

	r := newTestRanker(t, nil, &mockHistory{}, newMockStore())
	scored := r.scoreCandidates(candidates, history, now)

	if len(scored) != len(candidates) {
		t.Fatalf("scored %d candidates, want %d", len(scored), len(candidates))
	}
	for _, sc := range scored {
		if sc.score < 0 || sc.score > 1 {
			t.Errorf("candidate %s composite score %f outside [0,1]", sc.candidate.ID, sc.score)
		}
		for name, v := range sc.components {
			if v < 0 || v > 1 {
				t.Errorf("candidate %s component %s = %f outside [0,1]", sc.candidate.ID, name, v)
			}
		}
	}
}

func TestWeightsNormalize(t *testing.T) {
	w := Weights{Recency: 2, Engagement: 2, Diversity: 2, Unseen: 2, Random: 2}
	n := w.Normalize()

	sum := n.Recency + n.Engagement + n.Diversity + n.Unseen + n.Random
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("normalized weights sum to %f, want 1.0", sum)
	}
	if math.Abs(n.Recency-0.2) > 1e-9 {
		t.Errorf("normalized recency = %f, want 0.2", n.Recency)
	}

	// All-zero weights fall back to equal contributions.
	z := Weights{}.Normalize()
	if math.Abs(z.Unseen-0.2) > 1e-9 {
		t.Errorf("zero weights normalized unseen = %f, want 0.2", z.Unseen)
	}
}
