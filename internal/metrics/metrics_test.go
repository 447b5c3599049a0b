// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRank(t *testing.T) {
	before := testutil.ToFloat64(RankRequests.WithLabelValues("computed"))

	RecordRank("computed", 25, 10*time.Millisecond)

	after := testutil.ToFloat64(RankRequests.WithLabelValues("computed"))
	if after != before+1 {
		t.Errorf("computed counter = %v, want %v", after, before+1)
	}
}

func TestRecordRankErrorSkipsHistograms(t *testing.T) {
	before := testutil.ToFloat64(RankRequests.WithLabelValues("error"))

	RecordRank("error", 0, 0)

	after := testutil.ToFloat64(RankRequests.WithLabelValues("error"))
	if after != before+1 {
		t.Errorf("error counter = %v, want %v", after, before+1)
	}
}

func TestRecordBackendRequest(t *testing.T) {
	successBefore := testutil.ToFloat64(BackendRequests.WithLabelValues("history", "success"))
	failureBefore := testutil.ToFloat64(BackendRequests.WithLabelValues("history", "failure"))

	RecordBackendRequest("history", time.Millisecond, nil)
	RecordBackendRequest("history", time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(BackendRequests.WithLabelValues("history", "success")); got != successBefore+1 {
		t.Errorf("success counter = %v, want %v", got, successBefore+1)
	}
	if got := testutil.ToFloat64(BackendRequests.WithLabelValues("history", "failure")); got != failureBefore+1 {
		t.Errorf("failure counter = %v, want %v", got, failureBefore+1)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	RecordAPIRequest("GET", "/api/v1/feed", "200", 5*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "feedrank_api_requests_total") {
		t.Error("scrape output missing feedrank_api_requests_total")
	}
}
