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
	"os"

	"github.com/spf13/cobra"
)

// runHealth checks the service health endpoint and exits non-zero when
// the service is unreachable or unhealthy.
func runHealth(cmd *cobra.Command, args []string) {
	client := newServiceClient(config)
	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout())
	defer cancel()

	status, err := client.Health(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service unreachable at %s: %v\n", config.Endpoint, err)
		os.Exit(1)
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, status); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if status["status"] != "ok" {
		fmt.Printf("Service %s reported status %q\n", config.Endpoint, status["status"])
		os.Exit(1)
	}
	fmt.Printf("Service healthy: %s (%s)\n", config.Endpoint, status["service"])
}
