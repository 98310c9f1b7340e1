// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gabinete"

var (
	// Sync orchestrator
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Synchronization runs by trigger and outcome",
		},
		[]string{"trigger", "outcome"}, // outcome: "success", "empty", "error"
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sync_duration_seconds",
			Help:      "Wall-clock duration of synchronization runs",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"trigger"},
	)

	SyncItems = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_items_total",
			Help:      "Knowledge items written by synchronization runs",
		},
		[]string{"kind"}, // "new", "updated"
	)

	SyncRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_rejected_total",
			Help:      "Triggers rejected because a run was already in progress",
		},
	)

	SyncInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_in_progress",
			Help:      "1 while a synchronization run is active",
		},
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		},
	)

	// Author resolver and verifier
	ResolverStrategy = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_strategy_total",
			Help:      "Cascade strategy executions by outcome",
		},
		[]string{"strategy", "outcome"}, // outcome: "hit", "empty"
	)

	ResolverTypeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_type_errors_total",
			Help:      "Per-type query failures contained by the resolver",
		},
		[]string{"strategy", "type"},
	)

	VerifierChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifier_checks_total",
			Help:      "Authorship verifications by result",
		},
		[]string{"result"}, // "match", "no_match", "error"
	)

	// Câmara open-data API
	CamaraRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camara_requests_total",
			Help:      "Requests issued to the Câmara open-data API by status code",
		},
		[]string{"status"},
	)

	CamaraRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "camara_request_duration_seconds",
			Help:      "Latency of Câmara open-data API requests",
			Buckets:   prometheus.DefBuckets,
		},
	)

	CamaraRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camara_retries_total",
			Help:      "Requests retried after HTTP 429",
		},
	)

	// Circuit breaker
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_requests_total",
			Help:      "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_transitions_total",
			Help:      "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Events
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events handed to the message transport",
		},
		[]string{"topic", "outcome"},
	)

	// Admin surface
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Admin API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Admin API request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Connected dashboard websocket clients",
		},
	)
)

// Sync run outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// RecordSyncRun records one completed run.
func RecordSyncRun(trigger, outcome string, duration time.Duration, newItems, updatedItems int) {
	SyncRuns.WithLabelValues(trigger, outcome).Inc()
	SyncDuration.WithLabelValues(trigger).Observe(duration.Seconds())
	SyncItems.WithLabelValues("new").Add(float64(newItems))
	SyncItems.WithLabelValues("updated").Add(float64(updatedItems))
	if outcome == OutcomeSuccess {
		SyncLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordStrategy records whether a cascade strategy produced results.
func RecordStrategy(strategy string, hit bool) {
	outcome := "empty"
	if hit {
		outcome = "hit"
	}
	ResolverStrategy.WithLabelValues(strategy, outcome).Inc()
}

// RecordCamaraRequest records one outbound API request. status 0 means a transport error.
func RecordCamaraRequest(status int, duration time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	CamaraRequests.WithLabelValues(label).Inc()
	CamaraRequestDuration.Observe(duration.Seconds())
}

// RecordEventPublish records an event publication attempt.
func RecordEventPublish(topic string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EventsPublished.WithLabelValues(topic, outcome).Inc()
}

// RecordAPIRequest records an admin API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
