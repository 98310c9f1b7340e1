// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package sync

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/models"
)

func testSyncConfig() config.SyncConfig {
	return config.SyncConfig{
		Enabled:       true,
		DailyAt:       "06:00",
		Timezone:      "UTC",
		HistorySize:   30,
		StatusHistory: 10,
	}
}

// newScenarioManager wires the real resolver and upsert gate over a fake API.
func newScenarioManager(t *testing.T, f *fakeFetcher, store knowledge.Store, person models.PersonIdentifiers, types ...models.ProposalType) *Manager {
	t.Helper()
	client := NewCamaraClient(f)
	resolver := NewResolver(client, NewVerifier(client, time.Millisecond), 30, 10)
	source := NewAuthorSource(resolver, client, person, types, 100)
	return NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(store)})
}

// Scenario A: two PLs found by name are inserted, and a second run is a no-op.
func TestManager_ScenarioA_IdempotentRuns(t *testing.T) {
	f := newFakeFetcher()
	f.setProposals(t, "Fulana", models.ProposalTypePL,
		proposicao(2400011, "PL", 11, 2024, "Segundo projeto"),
		proposicao(2400010, "PL", 10, 2024, "Primeiro projeto"))
	store := knowledge.NewMemoryStore()
	m := newScenarioManager(t, f, store, models.PersonIdentifiers{Name: "Fulana"}, models.ProposalTypePL)

	first, err := m.TriggerManualSync(context.Background(), false)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	checkBool(t, "first.Success", first.Success, true)
	checkIntEqual(t, "first.NewItems", first.NewItems, 2)
	checkIntEqual(t, "first.TotalProposals", first.TotalProposals, 2)

	for _, id := range []string{"PROJ-PL-10-2024", "PROJ-PL-11-2024"} {
		if _, err := store.GetByID(context.Background(), id); err != nil {
			t.Errorf("%s missing from store: %v", id, err)
		}
	}

	second, err := m.TriggerManualSync(context.Background(), false)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	checkBool(t, "second.Success", second.Success, true)
	checkIntEqual(t, "second.NewItems", second.NewItems, 0)
	checkIntEqual(t, "second.UpdatedItems", second.UpdatedItems, 0)
	checkIntEqual(t, "second.TotalProposals", second.TotalProposals, 2)
	checkIntEqual(t, "store size", store.Len(), 2)
}

// Scenario B: every strategy comes back empty.
func TestManager_ScenarioB_NoProposals(t *testing.T) {
	store := knowledge.NewMemoryStore()
	m := newScenarioManager(t, newFakeFetcher(), store, models.PersonIdentifiers{ID: 204554, Name: "Fulana"}, allTypes...)

	res, err := m.TriggerManualSync(context.Background(), false)
	if err != nil {
		t.Fatalf("TriggerManualSync: %v", err)
	}
	checkBool(t, "Success", res.Success, false)
	checkIntEqual(t, "TotalProposals", res.TotalProposals, 0)
	checkStringEqual(t, "Error", res.Error, "no proposals found")
	checkIntEqual(t, "store size", store.Len(), 0)

	status := m.Status()
	if status.LastSync == nil || status.LastSync.Success {
		t.Errorf("a failed record should be written, got %+v", status.LastSync)
	}
}

// Scenario C: a forced run rewrites an existing item.
func TestManager_ScenarioC_ForceUpdates(t *testing.T) {
	ctx := context.Background()
	store := knowledge.NewMemoryStore()
	if _, err := store.Add(ctx, &models.KnowledgeItem{KBID: "PROJ-PL-10-2024", Title: "titulo antigo", Content: "conteudo antigo"}); err != nil {
		t.Fatal(err)
	}
	f := newFakeFetcher()
	f.setProposals(t, "Fulana", models.ProposalTypePL, proposicao(2400010, "PL", 10, 2024, "Ementa revisada"))
	m := newScenarioManager(t, f, store, models.PersonIdentifiers{Name: "Fulana"}, models.ProposalTypePL)

	unforced, _ := m.TriggerManualSync(ctx, false)
	checkIntEqual(t, "unforced.UpdatedItems", unforced.UpdatedItems, 0)
	item, _ := store.GetByID(ctx, "PROJ-PL-10-2024")
	checkStringEqual(t, "Title after unforced run", item.Title, "titulo antigo")

	forced, err := m.TriggerManualSync(ctx, true)
	if err != nil {
		t.Fatalf("forced run: %v", err)
	}
	checkBool(t, "forced.Success", forced.Success, true)
	checkIntEqual(t, "forced.UpdatedItems", forced.UpdatedItems, 1)
	checkIntEqual(t, "forced.NewItems", forced.NewItems, 0)

	item, _ = store.GetByID(ctx, "PROJ-PL-10-2024")
	if !strings.Contains(item.Title, "Ementa revisada") || !strings.Contains(item.Content, "Ementa revisada") {
		t.Errorf("forced run did not rewrite the item: %+v", item)
	}
	if last := m.Status().LastSync; last == nil || !last.Forced {
		t.Errorf("record should be marked forced: %+v", last)
	}
}

func TestManager_SingleFlight(t *testing.T) {
	source := newBlockingSource(testProposal(models.ProposalTypePL, 1, 2024))
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	done := make(chan models.SyncResult)
	go func() {
		res, _ := m.TriggerManualSync(context.Background(), false)
		done <- res
	}()
	<-source.entered

	if !m.Status().IsRunning {
		t.Error("status should report a run in progress")
	}
	rejected, err := m.TriggerManualSync(context.Background(), true)
	if !errors.Is(err, ErrSyncInProgress) {
		t.Fatalf("expected ErrSyncInProgress, got %v", err)
	}
	checkBool(t, "rejected.Success", rejected.Success, false)
	checkStringEqual(t, "rejected.Error", rejected.Error, "sync already in progress")

	close(source.release)
	first := <-done
	checkBool(t, "first.Success", first.Success, true)
	checkIntEqual(t, "history", m.history.Len(), 1)
	checkBool(t, "IsRunning after run", m.IsRunning(), false)
}

func TestManager_HistoryBound(t *testing.T) {
	source := &staticSource{proposals: []models.Proposal{testProposal(models.ProposalTypePL, 1, 2024)}}
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})
	var n atomic.Int32
	m.newID = func() string { return strconv.Itoa(int(n.Add(1))) }

	for i := 0; i < 35; i++ {
		if _, err := m.TriggerManualSync(context.Background(), false); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	checkIntEqual(t, "history", m.history.Len(), 30)
	status := m.Status()
	checkIntEqual(t, "status history", len(status.History), 10)
	checkStringEqual(t, "status oldest", status.History[0].ID, "26")
	checkStringEqual(t, "status newest", status.History[9].ID, "35")
	checkStringEqual(t, "last sync", status.LastSync.ID, "35")

	stats := m.Stats()
	checkIntEqual(t, "TotalSyncs", stats.TotalSyncs, 30)
	checkIntEqual(t, "TotalNewItems", stats.TotalNewItems, 0)
	if stats.SuccessRate != 1 {
		t.Errorf("SuccessRate = %v", stats.SuccessRate)
	}
}

func TestManager_PanicIsRecorded(t *testing.T) {
	m := NewManager(testSyncConfig(), Dependencies{Source: panicSource{}, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	res, err := m.TriggerManualSync(context.Background(), false)
	if err != nil {
		t.Fatalf("a panic must be captured, got %v", err)
	}
	checkBool(t, "Success", res.Success, false)
	checkStringEqual(t, "Error", res.Error, "panic: boom")
	checkBool(t, "IsRunning", m.IsRunning(), false)

	if _, err := m.TriggerManualSync(context.Background(), false); err != nil {
		t.Errorf("guard must be released after a panic: %v", err)
	}
}

func TestManager_StoreErrorAbortsRun(t *testing.T) {
	source := &staticSource{proposals: []models.Proposal{
		testProposal(models.ProposalTypePL, 1, 2024),
		testProposal(models.ProposalTypePL, 2, 2024),
		testProposal(models.ProposalTypePL, 3, 2024),
	}}
	upserter := &failingUpserter{failAt: 2}
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: upserter})

	res, _ := m.TriggerManualSync(context.Background(), false)
	checkBool(t, "Success", res.Success, false)
	checkStringEqual(t, "Error", res.Error, errStoreUnavailable.Error())
	checkIntEqual(t, "NewItems", res.NewItems, 1)
	checkIntEqual(t, "TotalProposals", res.TotalProposals, 3)
	checkIntEqual(t, "upsert calls", upserter.calls, 2)
}

func TestManager_SourceErrorIsRecorded(t *testing.T) {
	source := &staticSource{err: context.DeadlineExceeded}
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	res, _ := m.TriggerManualSync(context.Background(), false)
	checkBool(t, "Success", res.Success, false)
	checkStringEqual(t, "Error", res.Error, context.DeadlineExceeded.Error())
}

func TestManager_ManualRunIgnoresCallerCancellation(t *testing.T) {
	source := &staticSource{proposals: []models.Proposal{testProposal(models.ProposalTypePL, 1, 2024)}}
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := m.TriggerManualSync(ctx, false)
	if err != nil {
		t.Fatalf("TriggerManualSync: %v", err)
	}
	checkBool(t, "Success", res.Success, true)
}

func TestManager_NotifiesHubEventsAndCallback(t *testing.T) {
	source := &staticSource{proposals: []models.Proposal{
		testProposal(models.ProposalTypePL, 1, 2024),
		testProposal(models.ProposalTypePEC, 2, 2024),
	}}
	hub := &fakeHub{}
	events := &fakeEvents{err: errors.New("broker down")}
	m := NewManager(testSyncConfig(), Dependencies{
		Source:   source,
		Upserter: NewUpsertGate(knowledge.NewMemoryStore()),
		Hub:      hub,
		Events:   events,
	})
	var callbackRecord atomic.Value
	m.SetOnSyncCompleted(func(r models.SyncRecord) { callbackRecord.Store(r) })

	res, err := m.TriggerManualSync(context.Background(), false)
	if err != nil {
		t.Fatalf("TriggerManualSync: %v", err)
	}
	checkBool(t, "publish failure must not fail the run", res.Success, true)

	msgs := hub.types()
	if len(msgs) != 2 || msgs[0] != MessageSyncStarted || msgs[1] != MessageSyncCompleted {
		t.Errorf("hub messages = %v", msgs)
	}

	events.mu.Lock()
	checkIntEqual(t, "created events", len(events.created), 2)
	checkIntEqual(t, "completed events", len(events.completed), 1)
	if len(events.created) == 2 {
		checkStringEqual(t, "created[0]", events.created[0], "PROJ-PL-1-2024")
	}
	events.mu.Unlock()

	got, ok := callbackRecord.Load().(models.SyncRecord)
	if !ok || got.ID != res.RecordID {
		t.Errorf("callback record = %+v, want id %s", got, res.RecordID)
	}

	// A second run inserts nothing, so no created events.
	_, _ = m.TriggerManualSync(context.Background(), false)
	events.mu.Lock()
	checkIntEqual(t, "created events after rerun", len(events.created), 2)
	events.mu.Unlock()
}

func TestManager_StartStop(t *testing.T) {
	m := NewManager(testSyncConfig(), Dependencies{Source: &staticSource{}, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := m.Start(ctx); err == nil {
		t.Error("second Start should fail")
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.Status().NextScheduledAt == nil && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	status := m.Status()
	checkBool(t, "IsSchedulerActive", status.IsSchedulerActive, true)
	if status.NextScheduledAt == nil {
		t.Fatal("NextScheduledAt should be set once the scheduler runs")
	}
	if next := status.NextScheduledAt.UTC(); next.Hour() != 6 || next.Minute() != 0 {
		t.Errorf("next run = %v, want 06:00 UTC", next)
	}

	if err := m.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := m.Stop(); err == nil {
		t.Error("second Stop should fail")
	}
	status = m.Status()
	checkBool(t, "IsSchedulerActive after stop", status.IsSchedulerActive, false)
	if status.NextScheduledAt != nil {
		t.Error("NextScheduledAt should be cleared after Stop")
	}
}

func TestManager_StartRejectsBadClock(t *testing.T) {
	cfg := testSyncConfig()
	cfg.DailyAt = "25:99"
	m := NewManager(cfg, Dependencies{Source: &staticSource{}, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})
	if err := m.Start(context.Background()); err == nil {
		t.Fatal("expected error for invalid daily_at")
	}
}

func TestManager_RunOnStartup(t *testing.T) {
	cfg := testSyncConfig()
	cfg.RunOnStartup = true
	source := &staticSource{proposals: []models.Proposal{testProposal(models.ProposalTypePL, 1, 2024)}}
	m := NewManager(cfg, Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	completed := make(chan models.SyncRecord, 1)
	m.SetOnSyncCompleted(func(r models.SyncRecord) { completed <- r })

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = m.Stop() }()

	select {
	case r := <-completed:
		checkStringEqual(t, "Trigger", string(r.Trigger), string(models.SyncTriggerStartup))
		checkBool(t, "Forced", r.Forced, false)
	case <-time.After(5 * time.Second):
		t.Fatal("startup run did not happen")
	}
}

// Stop never abandons an in-flight run: it returns only after the startup
// run has been recorded.
func TestManager_StopWaitsForStartupRun(t *testing.T) {
	cfg := testSyncConfig()
	cfg.RunOnStartup = true
	source := newBlockingSource(testProposal(models.ProposalTypePL, 1, 2024))
	m := NewManager(cfg, Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	ctx, cancel := context.WithCancel(context.Background())
	if err := m.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	select {
	case <-source.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("startup run did not begin")
	}
	cancel()

	stopped := make(chan error, 1)
	go func() { stopped <- m.Stop() }()
	select {
	case err := <-stopped:
		t.Fatalf("Stop returned %v while the startup run was in flight", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(source.release)
	select {
	case err := <-stopped:
		if err != nil {
			t.Fatalf("Stop: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}

	history := m.Status().History
	checkIntEqual(t, "history", len(history), 1)
	checkBool(t, "Success", history[0].Success, true)
	checkStringEqual(t, "Trigger", string(history[0].Trigger), string(models.SyncTriggerStartup))
}

func TestManager_ScheduledRunFires(t *testing.T) {
	source := &staticSource{proposals: []models.Proposal{testProposal(models.ProposalTypePL, 1, 2024)}}
	m := NewManager(testSyncConfig(), Dependencies{Source: source, Upserter: NewUpsertGate(knowledge.NewMemoryStore())})

	// Shift the manager's clock to 50ms before 06:00 UTC.
	target := time.Date(2024, 5, 10, 6, 0, 0, 0, time.UTC)
	offset := target.Add(-50 * time.Millisecond).Sub(time.Now())
	m.now = func() time.Time { return time.Now().Add(offset) }

	completed := make(chan models.SyncRecord, 1)
	m.SetOnSyncCompleted(func(r models.SyncRecord) { completed <- r })

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = m.Stop() }()

	select {
	case r := <-completed:
		checkStringEqual(t, "Trigger", string(r.Trigger), string(models.SyncTriggerScheduled))
		checkBool(t, "scheduled runs never force", r.Forced, false)
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled run did not fire")
	}

	// After the run the next occurrence moves to the following day.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if next := m.Status().NextScheduledAt; next != nil && next.Day() == 11 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("next run not rescheduled: %v", m.Status().NextScheduledAt)
}

func TestNewManager_Defaults(t *testing.T) {
	m := NewManager(config.SyncConfig{}, Dependencies{})
	checkIntEqual(t, "history limit", m.history.limit, DefaultHistorySize)
	checkIntEqual(t, "status history", m.cfg.StatusHistory, DefaultStatusHistory)
}
