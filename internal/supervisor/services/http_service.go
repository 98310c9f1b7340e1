// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/gabinete/internal/logging"
)

// DefaultHTTPShutdownTimeout bounds the drain of in-flight admin requests,
// including a manual sync that is still waiting for its run.
const DefaultHTTPShutdownTimeout = 10 * time.Second

// HTTPServer is the subset of *http.Server the service needs.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves the admin API until the context is canceled.
type HTTPServerService struct {
	server HTTPServer
	drain  time.Duration
}

// NewHTTPServerService wraps server. A non-positive drain uses
// DefaultHTTPShutdownTimeout.
func NewHTTPServerService(server HTTPServer, drain time.Duration) *HTTPServerService {
	if drain <= 0 {
		drain = DefaultHTTPShutdownTimeout
	}
	return &HTTPServerService{server: server, drain: drain}
}

// Serve implements suture.Service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenErr := make(chan error, 1)
	go func() { listenErr <- h.server.ListenAndServe() }()

	select {
	case err := <-listenErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// The supervisor context is gone, so the drain gets a fresh deadline.
	drainCtx, cancel := context.WithTimeout(context.Background(), h.drain)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		logging.Warn().Err(err).Dur("drain", h.drain).Msg("Admin API did not drain in time")
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-listenErr
	logging.Debug().Msg("Admin API stopped")
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }
