// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package supervisor runs the long-lived components under a suture tree.

Tree layout:

	gabinete (root)
	├── sync-layer: scheduler (sync.Manager), websocket hub, event bridge
	└── api-layer:  HTTP server

A crash in one layer is restarted with backoff by its supervisor without
taking the other layer down. Supervisor events are logged through
sutureslog over the zerolog-backed slog handler.

Service adapters live in the services subpackage.
*/
package supervisor
