// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package services

import (
	"context"
	"fmt"
)

// Scheduler is implemented by sync.Manager: Start launches the daily
// schedule loop and Stop waits for it to exit.
type Scheduler interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService keeps the daily sync schedule alive for the lifetime of the
// supervisor context. A restart never overlaps two loops because Stop
// returns only after the previous loop has exited.
type SyncService struct {
	scheduler Scheduler
}

// NewSyncService wraps scheduler.
func NewSyncService(scheduler Scheduler) *SyncService {
	return &SyncService{scheduler: scheduler}
}

// Serve implements suture.Service.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("sync scheduler start failed: %w", err)
	}
	<-ctx.Done()
	if err := s.scheduler.Stop(); err != nil {
		return fmt.Errorf("sync scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

func (s *SyncService) String() string { return "sync-scheduler" }
