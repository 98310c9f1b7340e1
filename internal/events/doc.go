// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package events publishes synchronization outcomes for external consumers
such as the outbound notifier.

Topics (prefix configurable, "gabinete" by default):

  - <prefix>.sync.completed: one message per recorded run (the SyncRecord)
  - <prefix>.knowledge.created: one message per inserted knowledge item

Transports:

  - In-process: Watermill gochannel, used when no NATS URL is configured
  - NATS: Watermill NATS publisher, optionally on JetStream with the
    stream pre-created and Nats-Msg-Id set for deduplication
  - Embedded NATS server: self-contained broker for single-instance deployments

Publishing is best effort. The sync manager logs failures and never fails a
run because of them.
*/
package events
