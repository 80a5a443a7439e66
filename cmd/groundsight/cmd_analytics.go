// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/groundsight/groundsight/pkg/validation"
	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

func workspaceArg(args []string) string {
	workspaceID, err := validation.SanitizeWorkspaceID(args[0])
	if err != nil {
		log.Fatalf("Invalid workspace ID: %v", err)
	}
	return workspaceID
}

func validateFeedFlag() {
	if analyticsFeed == "" {
		return
	}
	for _, kind := range datatypes.Kinds() {
		if analyticsFeed == string(kind) {
			return
		}
	}
	log.Fatalf("Invalid --feed value %q (want graph, predictive, or correlation)", analyticsFeed)
}

// runAnalytics fetches and renders the bundle for a workspace.
func runAnalytics(cmd *cobra.Command, args []string) {
	workspaceID := workspaceArg(args)
	validateFeedFlag()

	client := newServiceClient(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	bundle, err := client.Analytics(ctx, workspaceID, forceRefresh)
	if err != nil {
		log.Fatalf("Analytics request failed: %v", err)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, bundle); err != nil {
			log.Fatalf("Failed to encode output: %v", err)
		}
		return
	}
	printBundle(os.Stdout, bundle, analyticsFeed)
}

// runRefresh forces a fresh cycle and renders the result.
func runRefresh(cmd *cobra.Command, args []string) {
	workspaceID := workspaceArg(args)

	client := newServiceClient(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	bundle, err := client.Refresh(ctx, workspaceID)
	if err != nil {
		log.Fatalf("Refresh request failed: %v", err)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, bundle); err != nil {
			log.Fatalf("Failed to encode output: %v", err)
		}
		return
	}
	fmt.Println("Refresh cycle complete.")
	fmt.Println()
	printBundle(os.Stdout, bundle, "")
}

// runSnapshotGet renders the last persisted bundle for a workspace.
func runSnapshotGet(cmd *cobra.Command, args []string) {
	workspaceID := workspaceArg(args)

	client := newServiceClient(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	bundle, err := client.Snapshot(ctx, workspaceID)
	if err != nil {
		log.Fatalf("Snapshot request failed: %v", err)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, bundle); err != nil {
			log.Fatalf("Failed to encode output: %v", err)
		}
		return
	}
	printBundle(os.Stdout, bundle, "")
}

// runSnapshotList lists workspaces with a persisted snapshot.
func runSnapshotList(cmd *cobra.Command, args []string) {
	client := newServiceClient(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	ids, err := client.SnapshotWorkspaces(ctx)
	if err != nil {
		log.Fatalf("Snapshot list request failed: %v", err)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, map[string][]string{"workspaces": ids}); err != nil {
			log.Fatalf("Failed to encode output: %v", err)
		}
		return
	}
	if len(ids) == 0 {
		fmt.Println("No persisted snapshots.")
		return
	}
	for _, id := range ids {
		fmt.Println(id)
	}
}
