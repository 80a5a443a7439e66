// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package sink

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/sample"
)

// --- Mock InfluxDB WriteAPI ---

type MockWriteAPI struct {
	Points   []*write.Point
	WriteErr error
}

func (m *MockWriteAPI) WritePoint(ctx context.Context, point ...*write.Point) error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Points = append(m.Points, point...)
	return nil
}

func (m *MockWriteAPI) WriteRecord(ctx context.Context, line ...string) error { return nil }
func (m *MockWriteAPI) EnableBatching()                                       {}
func (m *MockWriteAPI) Flush(ctx context.Context) error                       { return nil }

func tagValue(p *write.Point, key string) string {
	for _, tag := range p.TagList() {
		if tag.Key == key {
			return tag.Value
		}
	}
	return ""
}

func fieldValue(p *write.Point, key string) interface{} {
	for _, f := range p.FieldList() {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// TestRecord verifies one point per feed with the expected tags and counts.
func TestRecord(t *testing.T) {
	mock := &MockWriteAPI{}
	sink, err := New(mock)
	require.NoError(t, err)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	bundle := &datatypes.FeedBundle{
		WorkspaceID: "w-1",
		CapturedAt:  now,
		Graph:       sample.Graph(now),
		Predictive:  sample.Predictive(now),
		Correlation: datatypes.CorrelationError("upstream model offline"),
	}

	require.NoError(t, sink.Record(context.Background(), bundle))
	require.Len(t, mock.Points, 3)

	byFeed := map[string]*write.Point{}
	for _, p := range mock.Points {
		assert.Equal(t, feedMeasurement, p.Name())
		assert.Equal(t, "w-1", tagValue(p, "workspace"))
		assert.True(t, now.Equal(p.Time()))
		byFeed[tagValue(p, "feed")] = p
	}

	graph := byFeed["graph"]
	require.NotNil(t, graph)
	assert.Equal(t, "ok", tagValue(graph, "status"))
	wantItems := len(bundle.Graph.Graph.Nodes) + len(bundle.Graph.Graph.Edges)
	assert.EqualValues(t, wantItems, fieldValue(graph, "items"))

	correlation := byFeed["correlation"]
	require.NotNil(t, correlation)
	assert.Equal(t, "error", tagValue(correlation, "status"))
	assert.EqualValues(t, 0, fieldValue(correlation, "items"))
}

// TestRecordWriteFailure verifies write errors propagate.
func TestRecordWriteFailure(t *testing.T) {
	mock := &MockWriteAPI{WriteErr: errors.New("bucket full")}
	sink, err := New(mock)
	require.NoError(t, err)

	now := time.Now()
	bundle := &datatypes.FeedBundle{
		WorkspaceID: "w-1",
		CapturedAt:  now,
		Graph:       sample.Graph(now),
	}
	assert.Error(t, sink.Record(context.Background(), bundle))
}

// TestRecordRejectsAnonymousBundle verifies input validation.
func TestRecordRejectsAnonymousBundle(t *testing.T) {
	sink, err := New(&MockWriteAPI{})
	require.NoError(t, err)

	assert.Error(t, sink.Record(context.Background(), nil))
	assert.Error(t, sink.Record(context.Background(), &datatypes.FeedBundle{}))
}

// TestNewRequiresWriteAPI verifies constructor validation.
func TestNewRequiresWriteAPI(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

// TestNewFromEnvUnset verifies the sink is optional.
func TestNewFromEnvUnset(t *testing.T) {
	t.Setenv("INFLUXDB_URL", "")

	sink, closeFn, err := NewFromEnv()
	assert.NoError(t, err)
	assert.Nil(t, sink)
	assert.Nil(t, closeFn)
}

// TestNewFromEnvPartialConfig verifies missing credentials are an error
// rather than a silent no-op.
func TestNewFromEnvPartialConfig(t *testing.T) {
	t.Setenv("INFLUXDB_URL", "http://localhost:8086")
	t.Setenv("INFLUXDB_TOKEN", "")
	t.Setenv("INFLUXDB_ORG", "")
	t.Setenv("INFLUXDB_BUCKET", "")

	_, _, err := NewFromEnv()
	assert.Error(t, err)
}
