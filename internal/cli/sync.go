// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gabinete/internal/knowledge"
	"github.com/tomtom215/gabinete/internal/logging"
	"github.com/tomtom215/gabinete/internal/sync"
)

var syncForce bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronization against the configured store",
	Long: `Run one manual synchronization in-process, without the daily scheduler.

The configured knowledge store is opened directly, so a server using a
badger or duckdb store at the same path must be stopped first. Use
--force to rewrite items that already exist.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := knowledge.Open(cfg.Store)
		if err != nil {
			return fmt.Errorf("open knowledge store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing knowledge store")
			}
		}()

		client := sync.NewCamaraClient(sync.NewFetcher(&cfg.Camara))
		source, err := sync.NewAuthorSourceFromConfig(cfg, client)
		if err != nil {
			return err
		}

		manager := sync.NewManager(cfg.Sync, sync.Dependencies{
			Source:   source,
			Upserter: sync.NewUpsertGate(store),
		})
		result, err := manager.TriggerManualSync(commandContext(cmd), syncForce)
		if err != nil {
			return err
		}
		if err := printJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
		if !result.Success {
			return errors.New("sync failed: " + result.Error)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVarP(&syncForce, "force", "f", false, "rewrite existing knowledge items")
	rootCmd.AddCommand(syncCmd)
}
