// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/gabinete/internal/api"
	"github.com/tomtom215/gabinete/internal/config"
	"github.com/tomtom215/gabinete/internal/events"
	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/supervisor"
	"github.com/tomtom215/gabinete/internal/supervisor/services"
	"github.com/tomtom215/gabinete/internal/sync"
	ws "github.com/tomtom215/gabinete/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.Logging.LoggingSettings())
	defer func() { _ = logging.Close() }()

	logging.Info().
		Str("version", version).
		Int("author_id", cfg.Author.ID).
		Str("author_name", cfg.Author.Name).
		Str("store_driver", cfg.Store.Driver).
		Strs("proposal_types", cfg.Sync.ProposalTypes).
		Msg("Starting Gabinete")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := knowledge.Open(cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open knowledge store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing knowledge store")
		}
	}()
	logging.Info().Str("driver", cfg.Store.Driver).Str("path", cfg.Store.Path).Msg("Knowledge store opened")

	client := sync.NewCamaraClient(sync.NewFetcher(&cfg.Camara))
	source, err := sync.NewAuthorSourceFromConfig(cfg, client)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build proposal source")
	}

	wsHub := ws.NewHub()

	bus, err := initEvents(ctx, cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize event bus")
	}
	if bus != nil {
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			if err := bus.Close(shutdownCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing event bus")
			}
		}()
	}

	deps := sync.Dependencies{
		Source:   source,
		Upserter: sync.NewUpsertGate(store),
		Hub:      wsHub,
	}
	if bus != nil {
		deps.Events = bus.Publisher
	}
	manager := sync.NewManager(cfg.Sync, deps)
	manager.SetOnSyncCompleted(func(record models.SyncRecord) {
		if !record.Success {
			logging.Warn().Str("sync_run_id", record.ID).Str("error", record.Error).Msg("Sync run failed")
		}
	})
	wsHub.SetSnapshot(func() interface{} { return manager.Status() })

	handler := api.NewHandler(manager, store,
		api.WithVersion(version),
		api.WithReadinessCheck("knowledge_store", func(ctx context.Context) error {
			_, err := store.List(ctx, knowledge.ListOptions{Limit: 1})
			return err
		}),
	)
	router := api.NewRouter(handler, ws.NewHandler(wsHub, cfg.Security.CORSOrigins), api.MiddlewareConfigFromSecurity(cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Manual triggers wait for the run, so the write timeout follows server.timeout.
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})

	tree.AddSyncService(services.NewWebSocketHubService(wsHub))
	if cfg.Sync.Enabled {
		tree.AddSyncService(services.NewSyncService(manager))
		logging.Info().Str("daily_at", cfg.Sync.DailyAt).Str("timezone", cfg.Sync.Timezone).Msg("Daily sync scheduler added to supervisor tree")
	} else {
		logging.Info().Msg("Daily sync disabled; manual trigger only")
	}
	if bus != nil && bus.Subscriber != nil {
		bridge := ws.NewEventBridge(wsHub, bus.Subscriber, bus.Publisher.Topic(events.TopicKnowledgeCreated), ws.MessageTypeKnowledgeCreated)
		tree.AddSyncService(services.NewRunnerService("event-bridge", bridge))
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
		cancel()
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Gabinete stopped")
}
