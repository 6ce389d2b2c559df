// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ceremo Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the partnerauth CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partnerauth",
		Short: "Ceremo rental partner authentication service",
		Long: `partnerauth is the Ceremo rental partner authentication service.
It serves sign-up and sign-in over HTTP, backed by PostgreSQL,
and issues JWT token pairs for authenticated partners.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}
