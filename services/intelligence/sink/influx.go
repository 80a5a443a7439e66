// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sink exports completed analytics cycles to InfluxDB as time
// series, one point per feed. The series feed capacity dashboards: feed
// health over time, item counts per workspace, fallback frequency.
//
// The sink is optional. When INFLUXDB_URL is unset the service runs
// without it.
package sink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// feedMeasurement is the measurement name for per-feed cycle points.
const feedMeasurement = "analytics_feed"

// Sink writes per-feed points for each completed cycle.
type Sink struct {
	writeAPI api.WriteAPIBlocking
}

// New creates a sink over a blocking write API.
func New(writeAPI api.WriteAPIBlocking) (*Sink, error) {
	if writeAPI == nil {
		return nil, errors.New("writeAPI must not be nil")
	}
	return &Sink{writeAPI: writeAPI}, nil
}

// NewFromEnv builds a sink from INFLUXDB_URL, INFLUXDB_TOKEN,
// INFLUXDB_ORG, and INFLUXDB_BUCKET. When INFLUXDB_URL is unset it
// returns (nil, nil, nil): the caller runs without a sink.
//
// The returned func closes the underlying client and must be called on
// shutdown when a sink was created.
func NewFromEnv() (*Sink, func(), error) {
	url := os.Getenv("INFLUXDB_URL")
	if url == "" {
		return nil, nil, nil
	}
	token := os.Getenv("INFLUXDB_TOKEN")
	org := os.Getenv("INFLUXDB_ORG")
	bucket := os.Getenv("INFLUXDB_BUCKET")
	if token == "" || org == "" || bucket == "" {
		return nil, nil, errors.New("INFLUXDB_URL is set but INFLUXDB_TOKEN, INFLUXDB_ORG, or INFLUXDB_BUCKET is missing")
	}

	client := influxdb2.NewClient(url, token)
	sink, err := New(client.WriteAPIBlocking(org, bucket))
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return sink, client.Close, nil
}

// Record writes one point per feed in the bundle, timestamped at the
// bundle's capture time.
func (s *Sink) Record(ctx context.Context, bundle *datatypes.FeedBundle) error {
	if bundle == nil || bundle.WorkspaceID == "" {
		return errors.New("bundle must carry a workspace ID")
	}

	ts := bundle.CapturedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	points := []*feedPoint{
		{kind: datatypes.FeedGraph, status: bundle.Graph.Status, items: graphItemCount(&bundle.Graph)},
		{kind: datatypes.FeedPredictive, status: bundle.Predictive.Status, items: len(bundle.Predictive.Segments)},
		{kind: datatypes.FeedCorrelation, status: bundle.Correlation.Status, items: len(bundle.Correlation.Relationships)},
	}

	for _, fp := range points {
		p := influxdb2.NewPoint(
			feedMeasurement,
			map[string]string{
				"workspace": bundle.WorkspaceID,
				"feed":      string(fp.kind),
				"status":    string(fp.status),
			},
			map[string]interface{}{
				"items": fp.items,
			},
			ts,
		)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return fmt.Errorf("write %s point for %s: %w", fp.kind, bundle.WorkspaceID, err)
		}
	}
	return nil
}

type feedPoint struct {
	kind   datatypes.FeedKind
	status datatypes.FeedStatus
	items  int
}

func graphItemCount(feed *datatypes.GraphIntelligence) int {
	if feed.Graph == nil {
		return 0
	}
	return len(feed.Graph.Nodes) + len(feed.Graph.Edges)
}
