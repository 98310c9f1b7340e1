// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package api provides the admin HTTP surface of the synchronization engine.

Routes (Chi router):

	GET  /api/v1/health/live        process is up
	GET  /api/v1/health/ready       store reachable, scheduler state
	GET  /api/v1/sync/status        running flag, scheduler, last 10 runs
	GET  /api/v1/sync/stats         aggregates over retained history
	POST /api/v1/sync/trigger       manual run, body {"force": bool}
	GET  /api/v1/knowledge          list knowledge items (prefix, source, limit, offset)
	GET  /api/v1/knowledge/{kbID}   one knowledge item
	GET  /api/v1/ws                 websocket push (sync_started, sync_completed)
	GET  /metrics                   Prometheus metrics

Trigger status codes:

  - 200 with data.success=true: run completed
  - 200 with data.success=false: run completed and failed (error in data.error)
  - 409 SYNC_IN_PROGRESS: another run is active, nothing was recorded

Middleware order: request ID with logging context, RealIP, Recoverer, CORS,
then per-group rate limiting (go-chi/httprate) and request metrics.

Every JSON response uses the models.APIResponse envelope.
*/
package api
