// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"math"
	"strconv"
	"testing"

	"pgregory.net/rapid"

	"github.com/tomtom215/gabinete/internal/models"
)

func record(id string, success bool, newItems, updated int, durationMs int64) models.SyncRecord {
	return models.SyncRecord{ID: id, Success: success, NewItems: newItems, UpdatedItems: updated, DurationMs: durationMs}
}

func TestHistory_BoundedFIFO(t *testing.T) {
	h := NewHistory(30)
	for i := 1; i <= 35; i++ {
		h.Append(record(strconv.Itoa(i), true, 0, 0, 1))
	}

	records := h.Records()
	checkIntEqual(t, "len", len(records), 30)
	checkStringEqual(t, "oldest", records[0].ID, "6")
	checkStringEqual(t, "newest", records[29].ID, "35")
	checkStringEqual(t, "latest", h.Latest().ID, "35")

	last := h.Last(10)
	checkIntEqual(t, "last len", len(last), 10)
	checkStringEqual(t, "last[0]", last[0].ID, "26")
	checkStringEqual(t, "last[9]", last[9].ID, "35")
}

func TestHistory_ReturnsCopies(t *testing.T) {
	h := NewHistory(5)
	h.Append(record("a", true, 1, 0, 1))

	got := h.Records()
	got[0].ID = "mutated"
	h.Latest().ID = "mutated"

	checkStringEqual(t, "stored id", h.Records()[0].ID, "a")
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(0)
	if h.Latest() != nil {
		t.Error("Latest of empty history should be nil")
	}
	checkIntEqual(t, "len", len(h.Last(10)), 0)
	checkIntEqual(t, "default limit", h.limit, DefaultHistorySize)
}

func TestComputeStats(t *testing.T) {
	records := []models.SyncRecord{
		record("1", true, 2, 0, 100),
		record("2", false, 0, 0, 50),
		record("3", true, 0, 1, 150),
		record("4", true, 1, 0, 100),
	}
	stats := ComputeStats(records)

	checkIntEqual(t, "TotalSyncs", stats.TotalSyncs, 4)
	checkIntEqual(t, "SuccessfulSyncs", stats.SuccessfulSyncs, 3)
	checkIntEqual(t, "FailedSyncs", stats.FailedSyncs, 1)
	checkIntEqual(t, "TotalNewItems", stats.TotalNewItems, 3)
	checkIntEqual(t, "TotalUpdatedItems", stats.TotalUpdatedItems, 1)
	if stats.SuccessRate != 0.75 {
		t.Errorf("SuccessRate = %v, want 0.75", stats.SuccessRate)
	}
	if stats.AverageDurationMs != 100 {
		t.Errorf("AverageDurationMs = %v, want 100", stats.AverageDurationMs)
	}
	if stats.LastSync == nil || stats.LastSync.ID != "4" {
		t.Errorf("LastSync = %+v", stats.LastSync)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalSyncs != 0 || stats.SuccessRate != 0 || stats.LastSync != nil {
		t.Errorf("stats of empty history = %+v", stats)
	}
}

func TestHistoryProperty_Bound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 40).Draw(t, "limit")
		n := rapid.IntRange(0, 100).Draw(t, "appends")

		h := NewHistory(limit)
		for i := 0; i < n; i++ {
			h.Append(record(strconv.Itoa(i), i%2 == 0, 0, 0, 1))
		}

		records := h.Records()
		if want := min(n, limit); len(records) != want {
			t.Fatalf("len = %d, want %d", len(records), want)
		}
		for i := range records {
			if want := strconv.Itoa(n - len(records) + i); records[i].ID != want {
				t.Fatalf("records[%d] = %s, want %s", i, records[i].ID, want)
			}
		}
	})
}

func TestStatsProperty_Derivation(t *testing.T) {
	genRecord := rapid.Custom(func(t *rapid.T) models.SyncRecord {
		return record("r",
			rapid.Bool().Draw(t, "success"),
			rapid.IntRange(0, 50).Draw(t, "new"),
			rapid.IntRange(0, 50).Draw(t, "updated"),
			rapid.Int64Range(0, 10_000).Draw(t, "duration"))
	})

	rapid.Check(t, func(t *rapid.T) {
		records := rapid.SliceOfN(genRecord, 1, 30).Draw(t, "records")
		stats := ComputeStats(records)

		if stats.SuccessfulSyncs+stats.FailedSyncs != stats.TotalSyncs || stats.TotalSyncs != len(records) {
			t.Fatalf("counts do not add up: %+v", stats)
		}
		if stats.SuccessRate < 0 || stats.SuccessRate > 1 {
			t.Fatalf("SuccessRate out of range: %v", stats.SuccessRate)
		}
		want := float64(stats.SuccessfulSyncs) / float64(stats.TotalSyncs)
		if math.Abs(stats.SuccessRate-want) > 1e-9 {
			t.Fatalf("SuccessRate = %v, want %v", stats.SuccessRate, want)
		}
		// Pure: same input, same output.
		again := ComputeStats(records)
		if again.TotalNewItems != stats.TotalNewItems || again.AverageDurationMs != stats.AverageDurationMs {
			t.Fatal("ComputeStats is not deterministic")
		}
	})
}
