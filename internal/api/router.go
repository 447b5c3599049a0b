// Feedrank - Personalized Feed Ranking for the Bhaktistream Catalog
// Copyright 2026 Bhaktistream Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bhaktistream/feedrank

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/bhaktistream/feedrank/internal/metrics"
)

// RouterConfig holds the HTTP surface configuration.
type RouterConfig struct {
	// CORSOrigins lists allowed origins for browser callers.
	CORSOrigins []string

	// RateLimit is the per-IP request budget per RateWindow.
	RateLimit int

	// RateWindow is the rate limit window.
	RateWindow time.Duration
}

// NewRouter wires the middleware stack and routes.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewRouter(cfg RouterConfig, handlers *Handlers, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-ID"},
		MaxAge:         86400,
	}))

	// Probes and scrapes stay outside the rate limit so monitoring
	// cannot starve itself.
	r.Get("/healthz", handlers.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimit, cfg.RateWindow))
		r.Get("/feed", handlers.Feed)
		r.Delete("/feed/cache", handlers.InvalidateCache)
	})

	return r
}
