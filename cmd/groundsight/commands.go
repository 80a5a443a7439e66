// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath      string
	jsonOutput      bool
	forceRefresh    bool
	analyticsFeed   string // Restrict output to one feed (graph/predictive/correlation)

	rootCmd = &cobra.Command{
		Use:   "groundsight",
		Short: "A cli to query the Groundsight market intelligence service",
		Long: `Groundsight is a market-intelligence backend for real-estate
				workspaces. This CLI queries its analytics feeds, forces
				refresh cycles, and inspects persisted snapshots.`,
	}

	// --- Analytics ---
	analyticsCmd = &cobra.Command{
		Use:   "analytics [workspace-id]",
		Short: "Fetch the analytics bundle for a workspace",
		Args:  cobra.ExactArgs(1),
		Run:   runAnalytics, // Defined in cmd_analytics.go
	}

	refreshCmd = &cobra.Command{
		Use:   "refresh [workspace-id]",
		Short: "Force a fresh fetch cycle for a workspace, bypassing the cache",
		Args:  cobra.ExactArgs(1),
		Run:   runRefresh, // Defined in cmd_analytics.go
	}

	// --- Snapshots ---
	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect persisted analytics snapshots",
	}
	snapshotGetCmd = &cobra.Command{
		Use:   "get [workspace-id]",
		Short: "Show the last persisted bundle for a workspace (never triggers a fetch)",
		Args:  cobra.ExactArgs(1),
		Run:   runSnapshotGet, // Defined in cmd_analytics.go
	}
	snapshotListCmd = &cobra.Command{
		Use:   "list",
		Short: "List workspaces with a persisted snapshot",
		Run:   runSnapshotList, // Defined in cmd_analytics.go
	}

	// --- Service ---
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check the intelligence service health endpoint",
		Run:   runHealth, // Defined in cmd_health.go
	}
)

// init runs when the Go program starts
func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default: ./groundsight.yaml if present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output raw JSON for scripting")

	rootCmd.AddCommand(analyticsCmd)
	analyticsCmd.Flags().BoolVar(&forceRefresh, "force", false,
		"Bypass the service cache and run a fresh fetch cycle")
	analyticsCmd.Flags().StringVar(&analyticsFeed, "feed", "",
		"Restrict output to one feed: graph, predictive, or correlation")

	rootCmd.AddCommand(refreshCmd)

	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotGetCmd)
	snapshotCmd.AddCommand(snapshotListCmd)

	rootCmd.AddCommand(healthCmd)
}
