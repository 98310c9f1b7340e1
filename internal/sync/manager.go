// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

/*
manager.go - Sync Orchestrator Lifecycle and Runs

Manager Components:
  - ProposalSource: yields the proposals of the configured author
  - Upserter: merges each proposal into the knowledge store
  - History: bounded FIFO of run records (30 by default)
  - WebSocketHub: optional dashboard broadcast (sync_started, sync_completed)
  - EventPublisher: optional event bus (sync completed, knowledge created)

Lifecycle Methods:
  - NewManager(): inject configuration and dependencies
  - Start(): start the daily scheduler (and the optional startup run)
  - Stop(): stop the scheduler and wait for in-flight work
  - TriggerManualSync(): run now, optionally forcing rewrites
  - Status() / Stats(): read-only views over the history

States:
  - Idle: no run in progress; a trigger starts one
  - Running: a trigger is rejected with ErrSyncInProgress and leaves no record

Every trigger goes through triggerSync and runSync, so scheduled, startup
and manual runs share one code path. Runs execute on a context detached from
the caller's cancellation; timeouts are enforced by the HTTP client.

Thread Safety:
  - running: atomic single-flight guard (compare-and-swap)
  - mu: protects scheduler state and callbacks
  - History has its own lock
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/metrics"
	"github.com/tomtom215/gabinete/internal/models"
)

var (
	// ErrSyncInProgress rejects a trigger while another run is active.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrNoProposals marks a run whose source returned nothing.
	ErrNoProposals = errors.New("no proposals found")
)

// DefaultStatusHistory is the number of records Status returns.
const DefaultStatusHistory = 10

// WebSocket message types broadcast by the manager.
const (
	MessageSyncStarted   = "sync_started"
	MessageSyncCompleted = "sync_completed"
)

// Upserter merges one proposal into the store.
type Upserter interface {
	Upsert(ctx context.Context, p models.Proposal, opts UpsertOptions) (UpsertResult, error)
}

// WebSocketHub broadcasts messages to dashboard clients.
type WebSocketHub interface {
	BroadcastJSON(messageType string, data interface{})
}

// EventPublisher publishes run outcomes to the event bus.
// Errors are logged by the manager and never fail a run.
type EventPublisher interface {
	PublishSyncCompleted(ctx context.Context, record *models.SyncRecord) error
	PublishKnowledgeCreated(ctx context.Context, kbID string, p *models.Proposal) error
}

// Dependencies are the collaborators injected into a Manager.
// Source and Upserter are required.
type Dependencies struct {
	Source   ProposalSource
	Upserter Upserter
	Hub      WebSocketHub
	Events   EventPublisher
}

// Manager is the sync orchestrator.
type Manager struct {
	cfg      config.SyncConfig
	source   ProposalSource
	upserter Upserter
	hub      WebSocketHub
	events   EventPublisher
	history  *History

	now   func() time.Time
	newID func() string

	running atomic.Bool

	mu              sync.RWMutex
	schedulerActive bool
	nextScheduledAt time.Time
	stopChan        chan struct{}
	onSyncCompleted func(record models.SyncRecord)

	wg sync.WaitGroup
}

// NewManager creates a manager. Zero history sizes fall back to the defaults.
func NewManager(cfg config.SyncConfig, deps Dependencies) *Manager {
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = DefaultHistorySize
	}
	if cfg.StatusHistory <= 0 || cfg.StatusHistory > cfg.HistorySize {
		cfg.StatusHistory = min(DefaultStatusHistory, cfg.HistorySize)
	}

	return &Manager{
		cfg:      cfg,
		source:   deps.Source,
		upserter: deps.Upserter,
		hub:      deps.Hub,
		events:   deps.Events,
		history:  NewHistory(cfg.HistorySize),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// SetOnSyncCompleted registers a callback invoked after every recorded run.
func (m *Manager) SetOnSyncCompleted(callback func(record models.SyncRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSyncCompleted = callback
}

// Start launches the daily scheduler. It returns immediately; scheduled runs
// stop when ctx is cancelled or Stop is called.
func (m *Manager) Start(ctx context.Context) error {
	hour, minute, err := m.cfg.DailyClock()
	if err != nil {
		return fmt.Errorf("sync.daily_at: %w", err)
	}
	loc, err := m.cfg.Location()
	if err != nil {
		return fmt.Errorf("sync.timezone: %w", err)
	}

	m.mu.Lock()
	if m.schedulerActive {
		m.mu.Unlock()
		return fmt.Errorf("sync scheduler is already running")
	}
	m.schedulerActive = true
	m.stopChan = make(chan struct{})
	stop := m.stopChan
	m.mu.Unlock()

	logging.Info().
		Str("daily_at", m.cfg.DailyAt).
		Str("timezone", loc.String()).
		Bool("run_on_startup", m.cfg.RunOnStartup).
		Msg("Starting sync scheduler")

	m.wg.Add(1)
	go m.scheduleLoop(ctx, stop, hour, minute, loc)

	if m.cfg.RunOnStartup {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			if _, err := m.triggerSync(ctx, models.SyncTriggerStartup, false); err != nil {
				logging.Warn().Err(err).Msg("Startup sync skipped")
			}
		}()
	}
	return nil
}

// Stop halts the scheduler and waits for scheduled work to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.schedulerActive {
		m.mu.Unlock()
		return fmt.Errorf("sync scheduler is not running")
	}
	m.schedulerActive = false
	m.nextScheduledAt = time.Time{}
	close(m.stopChan)
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync scheduler...")
	m.wg.Wait()
	logging.Info().Msg("Sync scheduler stopped")
	return nil
}

func (m *Manager) scheduleLoop(ctx context.Context, stop <-chan struct{}, hour, minute int, loc *time.Location) {
	defer m.wg.Done()

	for {
		next := NextDailyRun(m.now(), hour, minute, loc)
		m.mu.Lock()
		m.nextScheduledAt = next
		m.mu.Unlock()
		logging.Info().Time("next_run", next).Msg("Next scheduled sync")

		timer := time.NewTimer(next.Sub(m.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := m.triggerSync(ctx, models.SyncTriggerScheduled, false); err != nil {
			logging.Warn().Err(err).Msg("Scheduled sync skipped")
		}
	}
}

// TriggerManualSync runs a sync now. It blocks until the run completes and
// is not cancelled by ctx. While another run is active it returns a failed
// result together with ErrSyncInProgress, and no record is written.
func (m *Manager) TriggerManualSync(ctx context.Context, force bool) (models.SyncResult, error) {
	return m.triggerSync(ctx, models.SyncTriggerManual, force)
}

func (m *Manager) triggerSync(ctx context.Context, trigger models.SyncTrigger, force bool) (models.SyncResult, error) {
	if !m.running.CompareAndSwap(false, true) {
		metrics.SyncRejected.Inc()
		logging.Ctx(ctx).Warn().Str("trigger", string(trigger)).Msg("Sync trigger rejected, a run is already in progress")
		return models.SyncResult{
			Success:   false,
			Error:     ErrSyncInProgress.Error(),
			Timestamp: m.now(),
		}, ErrSyncInProgress
	}
	defer m.running.Store(false)

	metrics.SyncInProgress.Set(1)
	defer metrics.SyncInProgress.Set(0)

	runCtx := context.WithoutCancel(ctx)
	record, created := m.runSync(runCtx, trigger, force)
	m.history.Append(record)
	m.notify(runCtx, &record, created)

	return models.ResultFromRecord(&record), nil
}

// runSync performs one run and returns its record and the proposals inserted.
// Store failures and panics end the run; the record captures the error.
func (m *Manager) runSync(ctx context.Context, trigger models.SyncTrigger, force bool) (record models.SyncRecord, created []models.Proposal) {
	start := m.now()
	record = models.SyncRecord{
		ID:        m.newID(),
		Timestamp: start,
		Trigger:   trigger,
		Forced:    force,
	}
	ctx = logging.ContextWithSyncRunID(ctx, record.ID)
	log := logging.Ctx(ctx)

	defer func() {
		if r := recover(); r != nil {
			record.Success = false
			record.Error = fmt.Sprintf("panic: %v", r)
			log.Error().Str("panic", fmt.Sprint(r)).Msg("Sync run panicked")
		}
		record.DurationMs = m.now().Sub(start).Milliseconds()
	}()

	log.Info().Str("trigger", string(trigger)).Bool("force", force).Msg("Sync started")
	if m.hub != nil {
		m.hub.BroadcastJSON(MessageSyncStarted, map[string]interface{}{
			"id":        record.ID,
			"trigger":   trigger,
			"forced":    force,
			"timestamp": start,
		})
	}

	proposals, err := m.source.FetchProposals(ctx)
	if err != nil {
		record.Error = err.Error()
		return record, nil
	}
	record.TotalProposals = len(proposals)
	if len(proposals) == 0 {
		record.Error = ErrNoProposals.Error()
		return record, nil
	}

	for i := range proposals {
		res, err := m.upserter.Upsert(ctx, proposals[i], UpsertOptions{Force: force})
		if err != nil {
			record.Error = err.Error()
			return record, created
		}
		if res.Inserted {
			record.NewItems++
			created = append(created, proposals[i])
		}
		if res.Updated {
			record.UpdatedItems++
		}
	}

	record.Success = true
	return record, created
}

func (m *Manager) notify(ctx context.Context, record *models.SyncRecord, created []models.Proposal) {
	log := logging.Ctx(logging.ContextWithSyncRunID(ctx, record.ID))

	outcome := metrics.OutcomeSuccess
	switch {
	case record.Error == ErrNoProposals.Error():
		outcome = metrics.OutcomeEmpty
	case !record.Success:
		outcome = metrics.OutcomeError
	}
	metrics.RecordSyncRun(string(record.Trigger), outcome,
		time.Duration(record.DurationMs)*time.Millisecond, record.NewItems, record.UpdatedItems)

	var event *zerolog.Event
	if record.Success {
		event = log.Info()
	} else {
		event = log.Warn().Str("error", record.Error)
	}
	event.Bool("success", record.Success).
		Int("new_items", record.NewItems).
		Int("updated_items", record.UpdatedItems).
		Int("total_proposals", record.TotalProposals).
		Int64("duration_ms", record.DurationMs).
		Msg("Sync completed")

	if m.hub != nil {
		m.hub.BroadcastJSON(MessageSyncCompleted, record)
	}

	if m.events != nil {
		for i := range created {
			kbID := created[i].Key().KnowledgeID()
			if err := m.events.PublishKnowledgeCreated(ctx, kbID, &created[i]); err != nil {
				log.Warn().Err(err).Str("kb_id", kbID).Msg("Failed to publish knowledge created event")
			}
		}
		if err := m.events.PublishSyncCompleted(ctx, record); err != nil {
			log.Warn().Err(err).Msg("Failed to publish sync completed event")
		}
	}

	m.mu.RLock()
	callback := m.onSyncCompleted
	m.mu.RUnlock()
	if callback != nil {
		callback(*record)
	}
}

// IsRunning reports whether a run is in progress.
func (m *Manager) IsRunning() bool {
	return m.running.Load()
}

// Status returns the current state and the most recent records, oldest first.
func (m *Manager) Status() models.SyncStatus {
	m.mu.RLock()
	active := m.schedulerActive
	next := m.nextScheduledAt
	m.mu.RUnlock()

	status := models.SyncStatus{
		IsRunning:         m.running.Load(),
		IsSchedulerActive: active,
		LastSync:          m.history.Latest(),
		History:           m.history.Last(m.cfg.StatusHistory),
	}
	if active && !next.IsZero() {
		status.NextScheduledAt = &next
	}
	return status
}

// Stats derives aggregate statistics over the retained history.
func (m *Manager) Stats() models.SyncStats {
	return ComputeStats(m.history.Records())
}
