// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package models

import "time"

// APIResponse is the envelope of every admin API response.
//
//	{"status":"success","data":{...},"metadata":{"timestamp":"...","query_time_ms":3}}
//	{"status":"error","data":null,"error":{"code":"SYNC_IN_PROGRESS","message":"sync already in progress"}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
//
// Codes used by the admin API:
//   - VALIDATION_ERROR: invalid request body or parameters
//   - NOT_FOUND: unknown knowledge item
//   - SYNC_IN_PROGRESS: a synchronization run is already active
//   - STORE_ERROR: the knowledge store failed
//   - SERVICE_UNAVAILABLE: a dependency is not ready
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
