// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package api

import (
	"context"
	"time"

	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/models"
)

// SyncController is the orchestrator surface used by the handlers.
// Implemented by sync.Manager.
type SyncController interface {
	TriggerManualSync(ctx context.Context, force bool) (models.SyncResult, error)
	Status() models.SyncStatus
	Stats() models.SyncStats
	IsRunning() bool
}

// KnowledgeReader is the read side of the knowledge store.
type KnowledgeReader interface {
	GetByID(ctx context.Context, kbID string) (*models.KnowledgeItem, error)
	List(ctx context.Context, opts knowledge.ListOptions) ([]models.KnowledgeItem, error)
}

// ReadinessCheck reports whether a dependency is usable.
type ReadinessCheck func(ctx context.Context) error

// Handler holds the HTTP handlers' dependencies.
type Handler struct {
	sync      SyncController
	knowledge KnowledgeReader
	checks    map[string]ReadinessCheck
	startTime time.Time
	version   string
}

// HandlerOption configures optional Handler fields.
type HandlerOption func(*Handler)

// WithReadinessCheck adds a named check to /health/ready.
func WithReadinessCheck(name string, check ReadinessCheck) HandlerOption {
	return func(h *Handler) { h.checks[name] = check }
}

// WithVersion sets the version reported by /health/live.
func WithVersion(version string) HandlerOption {
	return func(h *Handler) { h.version = version }
}

// NewHandler creates the handlers.
func NewHandler(syncCtl SyncController, reader KnowledgeReader, opts ...HandlerOption) *Handler {
	h := &Handler{
		sync:      syncCtl,
		knowledge: reader,
		checks:    make(map[string]ReadinessCheck),
		startTime: time.Now(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
