// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package main

import (
	"context"

	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/events"
	"github.com/tomtom215/gabinete/internal/logging"
)

// initEvents opens the event bus, or returns nil when events are disabled.
func initEvents(ctx context.Context, cfg *config.Config) (*events.Bus, error) {
	if !cfg.Events.Enabled {
		logging.Info().Msg("Event publishing disabled")
		return nil, nil
	}
	return events.Open(ctx, cfg.Events)
}
