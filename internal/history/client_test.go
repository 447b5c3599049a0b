// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package history

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bhaktistream/feedrank/internal/rank"
)

func TestClientRecent(t *testing.T) {
	var gotQuery atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query().Encode())
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"recording_id":"rec-3"},{"recording_id":"rec-1"},{"recording_id":""}]`))
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "test-key"}, zerolog.Nop())

	ctx := WithUser(context.Background(), "u1")
	ids, err := c.Recent(ctx)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}

	// Most recent first; blank identifiers are dropped.
	if len(ids) != 2 || ids[0] != "rec-3" || ids[1] != "rec-1" {
		t.Errorf("ids = %v", ids)
	}

	q := gotQuery.Load().(string)
	for _, want := range []string{"user_id=eq.u1", "order=played_at.desc", "limit=100"} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestClientBackendErrorMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{BaseURL: srv.URL, APIKey: "k", UserID: "u1"}, zerolog.Nop())

	_, err := c.Recent(context.Background())
	if !errors.Is(err, rank.ErrHistoryUnavailable) {
		t.Errorf("error = %v, want rank.ErrHistoryUnavailable", err)
	}
}

func TestClientMissingUser(t *testing.T) {
	c := NewClient(ClientConfig{BaseURL: "http://backend", APIKey: "k"}, zerolog.Nop())

	_, err := c.Recent(context.Background())
	if !errors.Is(err, rank.ErrHistoryUnavailable) {
		t.Errorf("error = %v, want rank.ErrHistoryUnavailable", err)
	}
}

func TestClientBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		BaseURL:           srv.URL,
		APIKey:            "k",
		UserID:            "u1",
		RequestsPerSecond: 1000,
		Burst:             100,
	}, zerolog.Nop())

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := c.Recent(ctx); !errors.Is(err, rank.ErrHistoryUnavailable) {
			t.Fatalf("call %d: error = %v, want rank.ErrHistoryUnavailable", i, err)
		}
	}

	// The breaker trips after five consecutive failures; later calls
	// fail fast without reaching the backend.
	if got := requests.Load(); got > 5 {
		t.Errorf("backend saw %d requests, want at most 5 once the breaker opened", got)
	}
}

func TestUserFromContext(t *testing.T) {
	if _, ok := UserFromContext(context.Background()); ok {
		t.Error("empty context reported a user")
	}

	ctx := WithUser(context.Background(), "u7")
	id, ok := UserFromContext(ctx)
	if !ok || id != "u7" {
		t.Errorf("UserFromContext = (%q, %v), want (u7, true)", id, ok)
	}
}
