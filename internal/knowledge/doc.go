// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package knowledge provides the knowledge base storage consumed by the sync engine.

The engine talks to the store only through the narrow Store contract
(GetByID, Add, Update by kb_id). None of the drivers offers compare-and-swap
to callers; the sync orchestrator's single-flight guard is what keeps the
read-then-write sequence of the upsert gate race-free.

Drivers:

  - memory: map guarded by a RWMutex, for tests and ephemeral runs
  - badger: BadgerDB v4, JSON values under the "kb:" key prefix
  - duckdb: a knowledge_items table in a DuckDB database file

Select a driver with Open:

	store, err := knowledge.Open(cfg.Store)
	if err != nil { ... }
	defer store.Close()
*/
package knowledge
