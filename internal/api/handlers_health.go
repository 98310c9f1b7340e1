// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"context"
	"net/http"
	"sort"
	"time"
)

const readinessTimeout = 3 * time.Second

// LiveStatus is the payload of /health/live.
type LiveStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyStatus is the payload of /health/ready.
type ReadyStatus struct {
	Ready       bool              `json:"ready"`
	SyncRunning bool              `json:"sync_running"`
	Scheduler   bool              `json:"scheduler_active"`
	Checks      map[string]string `json:"checks"`
}

// HealthLive always answers 200 while the process serves HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, LiveStatus{
		Status:        "alive",
		Version:       h.version,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthReady runs every readiness check; any failure answers 503.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := ReadyStatus{Ready: true, Checks: make(map[string]string, len(names))}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status.Ready = false
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}
	if h.sync != nil {
		st := h.sync.Status()
		status.SyncRunning = st.IsRunning
		status.Scheduler = st.IsSchedulerActive
	}

	if !status.Ready {
		respondJSON(w, r, http.StatusServiceUnavailable, errorEnvelope(CodeServiceUnavailable, "not ready", status))
		return
	}
	respondSuccess(w, r, status, start)
}
