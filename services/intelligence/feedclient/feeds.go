// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package feedclient

import (
	"context"
	"time"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/observability"
	"github.com/groundsight/groundsight/services/intelligence/sample"
)

// Backend endpoint paths, one per feed kind.
const (
	graphPath       = "/v1/intelligence/graph"
	predictivePath  = "/v1/intelligence/predictive"
	correlationPath = "/v1/intelligence/correlation"
)

// FetchGraph retrieves the relationship feed for a workspace.
//
// Transport failures resolve to the deterministic graph sample; schema
// validation failures are returned as *datatypes.ValidationError.
func (c *Client) FetchGraph(ctx context.Context, workspaceID string) (datatypes.GraphIntelligence, error) {
	started := time.Now()

	body, err := c.get(ctx, graphPath, workspaceID)
	if err != nil {
		c.recordFallback(datatypes.FeedGraph, workspaceID, started, err)
		return sample.Graph(c.now()), nil
	}

	feed, err := datatypes.ParseGraph(body)
	if err != nil {
		c.metrics.ObserveFetch(string(datatypes.FeedGraph), observability.OutcomeError, time.Since(started))
		c.log.Error("graph feed failed schema validation", "workspace_id", workspaceID, "error", err)
		return datatypes.GraphIntelligence{}, err
	}

	c.recordResolved(datatypes.FeedGraph, feed.Status, started)
	return feed, nil
}

// FetchPredictive retrieves the predictive feed for a workspace.
func (c *Client) FetchPredictive(ctx context.Context, workspaceID string) (datatypes.PredictiveIntelligence, error) {
	started := time.Now()

	body, err := c.get(ctx, predictivePath, workspaceID)
	if err != nil {
		c.recordFallback(datatypes.FeedPredictive, workspaceID, started, err)
		return sample.Predictive(c.now()), nil
	}

	feed, err := datatypes.ParsePredictive(body)
	if err != nil {
		c.metrics.ObserveFetch(string(datatypes.FeedPredictive), observability.OutcomeError, time.Since(started))
		c.log.Error("predictive feed failed schema validation", "workspace_id", workspaceID, "error", err)
		return datatypes.PredictiveIntelligence{}, err
	}

	c.recordResolved(datatypes.FeedPredictive, feed.Status, started)
	return feed, nil
}

// FetchCorrelation retrieves the cross-correlation feed for a workspace.
func (c *Client) FetchCorrelation(ctx context.Context, workspaceID string) (datatypes.CrossCorrelationIntelligence, error) {
	started := time.Now()

	body, err := c.get(ctx, correlationPath, workspaceID)
	if err != nil {
		c.recordFallback(datatypes.FeedCorrelation, workspaceID, started, err)
		return sample.Correlation(c.now()), nil
	}

	feed, err := datatypes.ParseCorrelation(body)
	if err != nil {
		c.metrics.ObserveFetch(string(datatypes.FeedCorrelation), observability.OutcomeError, time.Since(started))
		c.log.Error("correlation feed failed schema validation", "workspace_id", workspaceID, "error", err)
		return datatypes.CrossCorrelationIntelligence{}, err
	}

	c.recordResolved(datatypes.FeedCorrelation, feed.Status, started)
	return feed, nil
}

// recordFallback logs and counts a transport failure that was substituted
// with the deterministic sample. The caller never sees the raw error.
func (c *Client) recordFallback(kind datatypes.FeedKind, workspaceID string, started time.Time, err error) {
	elapsed := time.Since(started)
	c.metrics.ObserveFetch(string(kind), observability.OutcomeFallback, elapsed)
	c.metrics.RecordFallback(string(kind))
	c.log.Warn("feed transport failed, substituting sample",
		"feed", string(kind),
		"workspace_id", workspaceID,
		"elapsed_ms", elapsed.Milliseconds(),
		"error", err.Error(),
	)
}

// recordResolved counts a genuine backend resolution (ok, empty or a
// backend-reported error state).
func (c *Client) recordResolved(kind datatypes.FeedKind, status datatypes.FeedStatus, started time.Time) {
	outcome := observability.OutcomeOK
	switch status {
	case datatypes.StatusEmpty:
		outcome = observability.OutcomeEmpty
	case datatypes.StatusError:
		outcome = observability.OutcomeError
	}
	c.metrics.ObserveFetch(string(kind), outcome, time.Since(started))
}
