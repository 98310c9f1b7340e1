// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package models

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestProposalKey(t *testing.T) {
	t.Parallel()

	k := ProposalKey{Type: ProposalTypePL, Number: 10, Year: 2024}
	if got := k.KnowledgeID(); got != "PROJ-PL-10-2024" {
		t.Errorf("KnowledgeID() = %q, want PROJ-PL-10-2024", got)
	}
	if got := k.String(); got != "PL 10/2024" {
		t.Errorf("String() = %q, want \"PL 10/2024\"", got)
	}

	p := Proposal{ID: 99, Type: ProposalTypePEC, Number: 3, Year: 2023}
	if p.Key() != (ProposalKey{Type: ProposalTypePEC, Number: 3, Year: 2023}) {
		t.Errorf("Key() = %+v", p.Key())
	}
}

// Distinct keys must never collide on the knowledge id.
func TestProposalKey_KnowledgeIDInjective(t *testing.T) {
	genKey := rapid.Custom(func(t *rapid.T) ProposalKey {
		return ProposalKey{
			Type:   rapid.SampledFrom(AllProposalTypes).Draw(t, "type"),
			Number: rapid.IntRange(1, 20000).Draw(t, "number"),
			Year:   rapid.IntRange(1000, 9999).Draw(t, "year"),
		}
	})
	rapid.Check(t, func(t *rapid.T) {
		a := genKey.Draw(t, "a")
		b := genKey.Draw(t, "b")
		if (a == b) != (a.KnowledgeID() == b.KnowledgeID()) {
			t.Fatalf("keys %+v and %+v: ids %q and %q", a, b, a.KnowledgeID(), b.KnowledgeID())
		}
		if want := fmt.Sprintf("PROJ-%s-%d-%d", a.Type, a.Number, a.Year); a.KnowledgeID() != want {
			t.Fatalf("KnowledgeID() = %q, want %q", a.KnowledgeID(), want)
		}
	})
}

func TestParseProposalTypes(t *testing.T) {
	t.Parallel()

	got, err := ParseProposalTypes([]string{"pec", " PL", "PLP"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []ProposalType{ProposalTypePEC, ProposalTypePL, ProposalTypePLP}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseProposalTypes = %v, want %v", got, want)
	}

	if _, err := ParseProposalTypes([]string{"PL", "MPV"}); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestPersonIdentifiers_IsZero(t *testing.T) {
	t.Parallel()

	if !(PersonIdentifiers{Name: "  "}).IsZero() {
		t.Error("blank name without id should be zero")
	}
	if (PersonIdentifiers{ID: 1}).IsZero() {
		t.Error("id should make identifiers non-zero")
	}
}

func TestResultFromRecord(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	r := SyncRecord{ID: "abc", Timestamp: ts, Success: true, NewItems: 2, UpdatedItems: 1, TotalProposals: 5}
	got := ResultFromRecord(&r)
	want := SyncResult{Success: true, NewItems: 2, UpdatedItems: 1, TotalProposals: 5, Timestamp: ts, RecordID: "abc"}
	if got != want {
		t.Errorf("ResultFromRecord = %+v, want %+v", got, want)
	}
}
