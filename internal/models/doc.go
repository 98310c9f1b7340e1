// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
Package models defines the data structures shared across Gabinete.

Key Components:

  - Proposal: a legislative bill as read from the open-data API, identified
    by its ProposalKey (type, number, year)
  - PersonIdentifiers: the numeric ID plus display name of the tracked legislator
  - KnowledgeItem: the knowledge base entry derived from a Proposal
  - SyncRecord, SyncResult, SyncStatus, SyncStats: orchestration history and
    the read models exposed to the admin dashboard
  - APIResponse, APIError, Metadata: the HTTP response envelope

Wire formats of the Câmara dos Deputados API live in the camara subpackage and
are converted into these models by internal/sync.
*/
package models
