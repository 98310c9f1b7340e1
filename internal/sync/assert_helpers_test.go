// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"testing"

	"github.com/tomtom215/gabinete/internal/models"
)

// Test assertion helpers with "check" prefix.
// Using t.Helper() ensures error messages point to the calling line.

func checkStringEqual(t *testing.T, fieldName, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %q, got %q", fieldName, want, got)
	}
}

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkBool(t *testing.T, fieldName string, got, want bool) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %v, got %v", fieldName, want, got)
	}
}

// checkKBIDs checks the knowledge ids of proposals, in order.
func checkKBIDs(t *testing.T, proposals []models.Proposal, want ...string) {
	t.Helper()
	if len(proposals) != len(want) {
		t.Fatalf("expected %d proposals %v, got %d: %v", len(want), want, len(proposals), proposalIDs(proposals))
	}
	for i := range proposals {
		if got := proposals[i].Key().KnowledgeID(); got != want[i] {
			t.Errorf("proposal %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func proposalIDs(proposals []models.Proposal) []string {
	ids := make([]string, len(proposals))
	for i := range proposals {
		ids[i] = proposals[i].Key().KnowledgeID()
	}
	return ids
}
