// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printBundle renders a bundle as a human-readable report. When feed is
// non-empty only that feed section is printed.
func printBundle(w io.Writer, bundle *datatypes.FeedBundle, feed string) {
	fmt.Fprintf(w, "Workspace: %s\n", bundle.WorkspaceID)
	fmt.Fprintf(w, "Captured:  %s", bundle.CapturedAt.Format(time.RFC3339))
	if bundle.CacheHit {
		fmt.Fprint(w, " (cached)")
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)

	if feed == "" || feed == string(datatypes.FeedGraph) {
		printGraph(w, &bundle.Graph)
	}
	if feed == "" || feed == string(datatypes.FeedPredictive) {
		printPredictive(w, &bundle.Predictive)
	}
	if feed == "" || feed == string(datatypes.FeedCorrelation) {
		printCorrelation(w, &bundle.Correlation)
	}
}

func printFeedHeader(w io.Writer, name string, status datatypes.FeedStatus, summary, errMsg string) bool {
	fmt.Fprintf(w, "== %s [%s]\n", name, status)
	switch status {
	case datatypes.StatusError:
		fmt.Fprintf(w, "   error: %s\n\n", errMsg)
		return false
	case datatypes.StatusEmpty:
		if summary != "" {
			fmt.Fprintf(w, "   %s\n", summary)
		}
		fmt.Fprintf(w, "   no data for this workspace\n\n")
		return false
	}
	if summary != "" {
		fmt.Fprintf(w, "   %s\n", summary)
	}
	return true
}

func printGraph(w io.Writer, g *datatypes.GraphIntelligence) {
	if !printFeedHeader(w, "Market Graph", g.Status, g.Summary, g.Error) {
		return
	}
	fmt.Fprintf(w, "   %d nodes, %d edges\n", len(g.Graph.Nodes), len(g.Graph.Edges))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "   NODE\tCATEGORY\tSCORE")
	for _, n := range g.Graph.Nodes {
		fmt.Fprintf(tw, "   %s\t%s\t%.2f\n", n.Label, n.Category, n.Score)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printPredictive(w io.Writer, p *datatypes.PredictiveIntelligence) {
	if !printFeedHeader(w, "Predictive Outlook", p.Status, p.Summary, p.Error) {
		return
	}
	fmt.Fprintf(w, "   horizon: %d months\n", p.HorizonMonths)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "   SEGMENT\tBASELINE\tPROJECTION\tPROBABILITY")
	for _, s := range p.Segments {
		fmt.Fprintf(tw, "   %s\t%.2f\t%.2f\t%.0f%%\n", s.SegmentName, s.Baseline, s.Projection, s.Probability*100)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func printCorrelation(w io.Writer, c *datatypes.CrossCorrelationIntelligence) {
	if !printFeedHeader(w, "Cross-Correlations", c.Status, c.Summary, c.Error) {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "   DRIVER\tOUTCOME\tCOEFFICIENT\tP-VALUE")
	for _, r := range c.Relationships {
		fmt.Fprintf(tw, "   %s\t%s\t%+.2f\t%.3f\n", r.Driver, r.Outcome, r.Coefficient, r.PValue)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
