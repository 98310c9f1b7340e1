// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package main is the entry point for the Gabinete server.

Gabinete keeps a legislative office's knowledge base in step with the
proposals its deputy authored in the Câmara dos Deputados open-data API.
Once a day (and on demand) it resolves the deputy's proposals, turns each
one into a knowledge item keyed PROJ-<type>-<number>-<year>, and inserts
the ones the base does not have yet.

# Application Architecture

	RootSupervisor ("gabinete")
	├── SyncSupervisor ("sync-layer")
	│   ├── WebSocket hub
	│   ├── Sync scheduler (daily run, if sync.enabled)
	│   └── Event bridge (knowledge.created -> websocket, in-process bus only)
	└── APISupervisor ("api-layer")
	    └── HTTP server (admin API, /metrics)

Component initialization order:

 1. Configuration: koanf v2 (defaults, YAML file, environment)
 2. Logging: zerolog, optional rotated file
 3. Knowledge store: badger, duckdb or memory
 4. Câmara client: rate-limited fetcher behind a circuit breaker
 5. Event bus: gochannel, NATS, or embedded NATS (if events.enabled)
 6. Sync manager: resolver cascade, verifier, upsert gate, history
 7. HTTP router and websocket hub
 8. Supervisor tree, then wait for SIGINT/SIGTERM

Environment examples:

	GABINETE_AUTHOR_ID=204554
	GABINETE_AUTHOR_NAME="Fulana de Tal"
	GABINETE_SYNC_DAILY_AT=06:00
	GABINETE_STORE_DRIVER=badger
	EVENTS_ENABLED=true NATS_EMBEDDED=true
*/
package main
