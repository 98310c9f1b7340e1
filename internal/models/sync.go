// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package models

import "time"

// SyncTrigger identifies what started a synchronization run.
type SyncTrigger string

// Sync triggers.
const (
	SyncTriggerScheduled SyncTrigger = "scheduled"
	SyncTriggerManual    SyncTrigger = "manual"
	SyncTriggerStartup   SyncTrigger = "startup"
)

// SyncRecord is the outcome of one run attempt.
type SyncRecord struct {
	ID             string      `json:"id"`
	Timestamp      time.Time   `json:"timestamp"`
	Success        bool        `json:"success"`
	NewItems       int         `json:"new_items"`
	UpdatedItems   int         `json:"updated_items"`
	TotalProposals int         `json:"total_proposals"`
	Error          string      `json:"error,omitempty"`
	DurationMs     int64       `json:"duration_ms"`
	Trigger        SyncTrigger `json:"trigger"`
	Forced         bool        `json:"forced"`
}

// SyncResult is returned to the caller of a manual trigger. A rejected
// trigger carries Success=false, the in-progress error and no RecordID.
type SyncResult struct {
	Success        bool      `json:"success"`
	NewItems       int       `json:"new_items"`
	UpdatedItems   int       `json:"updated_items"`
	TotalProposals int       `json:"total_proposals"`
	Timestamp      time.Time `json:"timestamp"`
	Error          string    `json:"error,omitempty"`
	RecordID       string    `json:"record_id,omitempty"`
}

// ResultFromRecord converts a completed run into the caller-facing result.
func ResultFromRecord(r *SyncRecord) SyncResult {
	return SyncResult{
		Success:        r.Success,
		NewItems:       r.NewItems,
		UpdatedItems:   r.UpdatedItems,
		TotalProposals: r.TotalProposals,
		Timestamp:      r.Timestamp,
		Error:          r.Error,
		RecordID:       r.ID,
	}
}

// SyncStatus is the scheduler state exposed to the dashboard.
type SyncStatus struct {
	IsRunning         bool         `json:"is_running"`
	IsSchedulerActive bool         `json:"is_scheduler_active"`
	LastSync          *SyncRecord  `json:"last_sync"`
	NextScheduledAt   *time.Time   `json:"next_scheduled_at"`
	History           []SyncRecord `json:"history"`
}

// SyncStats are aggregates derived from the retained history on every read.
type SyncStats struct {
	TotalSyncs        int         `json:"total_syncs"`
	SuccessfulSyncs   int         `json:"successful_syncs"`
	FailedSyncs       int         `json:"failed_syncs"`
	SuccessRate       float64     `json:"success_rate"`
	TotalNewItems     int         `json:"total_new_items"`
	TotalUpdatedItems int         `json:"total_updated_items"`
	AverageDurationMs float64     `json:"average_duration_ms"`
	LastSync          *SyncRecord `json:"last_sync"`
}
