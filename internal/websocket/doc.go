// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package websocket pushes sync lifecycle notifications to dashboard clients.

Message types sent by the server:

  - status: sent once on connect with the current sync status snapshot
  - sync_started: a run began (trigger, run id)
  - sync_completed: a run finished (the recorded SyncRecord)
  - knowledge_created: a knowledge item was inserted (bridged from the event bus)
  - pong: reply to a client "ping"

Every message is a JSON envelope:

	{"type": "sync_completed", "data": {...}}

The Hub owns the client set. Register, Unregister and broadcasts are
serialized through RunWithContext, which is meant to run under a supervisor.
Slow clients whose send buffer is full are dropped rather than blocking the
broadcast.
*/
package websocket
