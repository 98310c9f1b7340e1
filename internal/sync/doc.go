// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package sync discovers the proposals authored by one legislator and merges
them into the knowledge store.

The Câmara dos Deputados open data API has no dependable "proposals by
author" query, so the package resolves authorship through a cascade of
strategies and keeps at most one synchronization running at a time.

Key Components:

  - HTTPFetcher: GET requests with a User-Agent, a shared request budget
    (x/time/rate) and HTTP 429 backoff
  - CircuitBreakerFetcher: gobreaker wrapper that fails fast while the API is down
  - CamaraClient: typed access to /proposicoes, /proposicoes/{id}/autores and /deputados
  - Resolver: by-name, then by-id, then recent-and-verify; first non-empty result wins
  - Verifier: paced authorship check of one candidate proposal
  - UpsertGate: insert, skip, or update (when forced) a knowledge item keyed PROJ-<type>-<number>-<year>
  - Manager: daily scheduler, manual trigger, single-flight guard, bounded history and stats

Data Flow:

 1. Manager.runSync resolves proposals through a ProposalSource (the Resolver by default)
 2. Each proposal passes through the UpsertGate
 3. A SyncRecord is appended to the bounded history
 4. Metrics, websocket broadcasts and events are emitted

Triggers:

Scheduled runs fire at the configured wall-clock time (06:00 by default)
and always run with force=false. Manual runs go through the same code path
and may set force=true to rewrite existing items. A trigger that arrives
while a run is in progress is rejected with ErrSyncInProgress and leaves no
record.

Thread Safety:

Manager is safe for concurrent use. The single-flight guard is an
atomic.Bool; history is protected by a mutex. Network calls inside a run are
sequential.
*/
package sync
