// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Tracklab Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Tracklab CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracklab",
		Short: "Tracklab - a music catalog backend",
		Long: `Tracklab serves a REST API over a PostgreSQL-backed music catalog:
artists, albums, tracks, the relationships between them, and the
accounts allowed to edit them.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
