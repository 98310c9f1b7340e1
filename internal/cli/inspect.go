// Gabinete - Legislative Proposal Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gabinete

package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gabinete/internal/models"
	"github.com/tomtom215/gabinete/internal/sync"
)

var deputyItems int

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the proposals the author resolver finds, without writing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := sync.NewCamaraClient(sync.NewFetcher(&cfg.Camara))
		source, err := sync.NewAuthorSourceFromConfig(cfg, client)
		if err != nil {
			return err
		}

		proposals, err := source.FetchProposals(commandContext(cmd))
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for i := range proposals {
			p := &proposals[i]
			fmt.Fprintf(out, "%s\t%s\t%s\n", p.Key().KnowledgeID(), p.Key(), p.Ementa)
		}
		fmt.Fprintf(out, "%d proposal(s)\n", len(proposals))
		return nil
	},
}

var deputyCmd = &cobra.Command{
	Use:   "deputy <id>",
	Short: "Show a deputy and their most recent proposals",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid deputy id %q", args[0])
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := sync.NewCamaraClient(sync.NewFetcher(&cfg.Camara))

		deputy, err := client.GetDeputy(commandContext(cmd), id)
		if err != nil {
			return err
		}
		proposals, err := client.ListDeputyProposals(commandContext(cmd), id, deputyItems)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), struct {
			Deputy    *models.Deputy    `json:"deputy"`
			Proposals []models.Proposal `json:"proposals"`
		}{deputy, proposals})
	},
}

func init() {
	deputyCmd.Flags().IntVarP(&deputyItems, "items", "n", 10, "number of recent proposals to list")
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(deputyCmd)
}
