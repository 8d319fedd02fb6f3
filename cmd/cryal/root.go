// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Cryal Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for the Cryal CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cryal",
		Short: "Cryal - collaborative trip planning backend",
		Long: `Cryal is a collaborative trip-planning backend: accounts create or
join rooms, rooms hold ordered waypoint plans, and members share
location updates. This binary serves the HTTP API and manages the
PostgreSQL schema.`,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
