// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// healthRateLimit is permissive so probes never trip it.
const healthRateLimit = 1000

// NewRouter wires the routes. ws may be nil, which leaves /api/v1/ws unrouted.
func NewRouter(h *Handler, ws http.Handler, cfg MiddlewareConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg))

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(RateLimit(healthRateLimit, cfg.RateLimitWindow, cfg.RateLimitDisabled))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow, cfg.RateLimitDisabled))
		r.Use(RequestMetrics)

		r.Get("/sync/status", h.SyncStatus)
		r.Get("/sync/stats", h.SyncStats)
		r.Post("/sync/trigger", h.SyncTrigger)

		r.Get("/knowledge", h.KnowledgeList)
		r.Get("/knowledge/{kbID}", h.KnowledgeGet)

		if ws != nil {
			r.Method(http.MethodGet, "/ws", ws)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})

	return r
}
