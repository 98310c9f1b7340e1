// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"sync"

	"github.com/tomtom215/gabinete/internal/models"
)

// DefaultHistorySize is the number of run records retained.
const DefaultHistorySize = 30

// History is a bounded FIFO of run records, oldest first.
type History struct {
	mu      sync.RWMutex
	records []models.SyncRecord
	limit   int
}

// NewHistory creates a history keeping at most limit records.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	return &History{records: make([]models.SyncRecord, 0, limit), limit: limit}
}

// Append adds r, evicting the oldest record when full.
func (h *History) Append(r models.SyncRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.records) == h.limit {
		copy(h.records, h.records[1:])
		h.records = h.records[:h.limit-1]
	}
	h.records = append(h.records, r)
}

// Records returns a copy of all records, oldest first.
func (h *History) Records() []models.SyncRecord {
	return h.Last(0)
}

// Last returns a copy of the n most recent records, oldest first. n <= 0 returns all.
func (h *History) Last(n int) []models.SyncRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	start := 0
	if n > 0 && n < len(h.records) {
		start = len(h.records) - n
	}
	out := make([]models.SyncRecord, len(h.records)-start)
	copy(out, h.records[start:])
	return out
}

// Latest returns a copy of the most recent record, or nil.
func (h *History) Latest() *models.SyncRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.records) == 0 {
		return nil
	}
	r := h.records[len(h.records)-1]
	return &r
}

// Len returns the number of records held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.records)
}

// ComputeStats derives aggregate statistics from records (oldest first).
// SuccessRate is a fraction in [0, 1].
func ComputeStats(records []models.SyncRecord) models.SyncStats {
	var stats models.SyncStats
	if len(records) == 0 {
		return stats
	}

	var totalDuration int64
	for i := range records {
		r := &records[i]
		if r.Success {
			stats.SuccessfulSyncs++
		} else {
			stats.FailedSyncs++
		}
		stats.TotalNewItems += r.NewItems
		stats.TotalUpdatedItems += r.UpdatedItems
		totalDuration += r.DurationMs
	}

	stats.TotalSyncs = len(records)
	stats.SuccessRate = float64(stats.SuccessfulSyncs) / float64(stats.TotalSyncs)
	stats.AverageDurationMs = float64(totalDuration) / float64(stats.TotalSyncs)
	last := records[len(records)-1]
	stats.LastSync = &last
	return stats
}
