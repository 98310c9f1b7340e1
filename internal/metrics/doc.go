// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

// Package metrics defines the Prometheus instrumentation of Gabinete.
//
// Metrics are registered on the default registry with promauto and served by
// the admin API at GET /metrics. Collectors are package-level variables; the
// Record* helpers keep label values consistent between call sites.
//
// # Families
//
//   - gabinete_sync_*: orchestrator runs, durations, item counts, rejections
//   - gabinete_resolver_*: which cascade strategy produced results
//   - gabinete_verifier_*: authorship verification outcomes
//   - gabinete_camara_*: outbound open-data API requests
//   - gabinete_circuit_breaker_*: breaker state of the API client
//   - gabinete_events_*: event publication for the notifier
//   - gabinete_api_*, gabinete_websocket_*: admin surface
package metrics
