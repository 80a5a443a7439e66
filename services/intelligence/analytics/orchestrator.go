// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analytics orchestrates the three workspace intelligence feeds.
//
// # Description
//
// Given a workspace identifier, the orchestrator checks a per-instance TTL
// cache, and on a miss fans out the three feed fetches concurrently. The
// join is settle-all: every fetch resolves independently to a displayable
// state, and the cycle completes only after the slowest of the three has
// settled. One feed failing never blocks or blanks the other two.
//
// # Cycle lifecycle
//
//	GetAnalytics(ws)
//	   │
//	   ├─► cache fresh & not forced ──► return cached bundle (CacheHit)
//	   │
//	   └─► fan out graph / predictive / correlation
//	           │ each settles independently:
//	           │   transport failure → sample (inside feedclient)
//	           │   validation failure → feed error state (here)
//	           │   valid response → normalized feed state
//	           ▼
//	       all settled → stamp CapturedAt → overwrite cache entry
//	                   → persist snapshot (optional) → return bundle
//
// # Concurrency
//
// Overlapping cycles for the same workspace are not coordinated: the last
// cycle to settle wins the cache and the returned state. Callers that need
// strict sequencing must serialize their own calls.
package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/observability"
)

var tracer = otel.Tracer("groundsight.intelligence.analytics")

// FeedFetcher retrieves the three intelligence feeds for a workspace.
// Implemented by feedclient.Client; stubbed in tests.
type FeedFetcher interface {
	FetchGraph(ctx context.Context, workspaceID string) (datatypes.GraphIntelligence, error)
	FetchPredictive(ctx context.Context, workspaceID string) (datatypes.PredictiveIntelligence, error)
	FetchCorrelation(ctx context.Context, workspaceID string) (datatypes.CrossCorrelationIntelligence, error)
}

// Snapshotter persists completed bundles. Implemented by the badger-backed
// snapshot store; optional.
type Snapshotter interface {
	Put(ctx context.Context, bundle *datatypes.FeedBundle) error
}

// FeedObserver is notified as each feed settles, before the overall cycle
// completes. UIs can update per-feed panels without waiting for the join.
// Observers must be fast; they run on the fetch goroutines.
type FeedObserver func(workspaceID string, kind datatypes.FeedKind, status datatypes.FeedStatus)

// Config configures an Orchestrator.
type Config struct {
	// Fetcher retrieves the three feeds. Required.
	Fetcher FeedFetcher

	// Cache is the per-workspace bundle cache.
	// Default: in-memory cache with DefaultCacheTTL.
	Cache BundleCache

	// Clock supplies capture timestamps. Default: system clock.
	Clock Clock

	// Logger receives cycle diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records cache and cycle outcomes. Nil disables recording.
	Metrics *observability.Metrics

	// Snapshots persists completed bundles. Optional.
	Snapshots Snapshotter

	// Observer is notified per settled feed. Optional.
	Observer FeedObserver
}

// Orchestrator coordinates cached, concurrent retrieval of the three
// intelligence feeds per workspace. Safe for concurrent use.
type Orchestrator struct {
	fetcher   FeedFetcher
	cache     BundleCache
	clock     Clock
	log       *slog.Logger
	metrics   *observability.Metrics
	snapshots Snapshotter
	observer  FeedObserver
}

// New creates an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Fetcher == nil {
		return nil, fmt.Errorf("analytics: Fetcher is required")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock()
	}
	cache := cfg.Cache
	if cache == nil {
		cache = NewMemoryCache(DefaultCacheTTL, clock)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		fetcher:   cfg.Fetcher,
		cache:     cache,
		clock:     clock,
		log:       log.With("component", "analytics"),
		metrics:   cfg.Metrics,
		snapshots: cfg.Snapshots,
		observer:  cfg.Observer,
	}, nil
}

// GetAnalytics returns the feed bundle for a workspace.
//
// When force is false and a fresh cache entry exists, the cached bundle is
// returned without any network calls and CacheHit is set. Otherwise a full
// fetch cycle runs: all three feeds concurrently, each settling on its own,
// and the completed bundle overwrites the cache entry wholesale.
//
// By the time results reach this level every feed already has a displayable
// state: transport failures were substituted with samples inside the fetch
// layer, and validation failures are stored here as that feed's error
// state. The returned error is reserved for caller mistakes (empty
// workspace ID).
func (o *Orchestrator) GetAnalytics(ctx context.Context, workspaceID string, force bool) (*datatypes.FeedBundle, error) {
	if workspaceID == "" {
		return nil, fmt.Errorf("analytics: workspace ID is required")
	}

	ctx, span := tracer.Start(ctx, "analytics.get")
	defer span.End()
	span.SetAttributes(
		attribute.String("workspace.id", workspaceID),
		attribute.Bool("force", force),
	)

	if force {
		o.metrics.RecordCacheLookup(observability.CacheBypass)
	} else {
		if cached, ok := o.cache.Get(workspaceID); ok {
			o.metrics.RecordCacheLookup(observability.CacheHit)
			span.SetAttributes(attribute.Bool("cache.hit", true))
			cached.CacheHit = true
			return cached, nil
		}
		o.metrics.RecordCacheLookup(observability.CacheMiss)
	}

	return o.runCycle(ctx, workspaceID, force), nil
}

// Refetch forces a fresh fetch cycle, bypassing the cache check and
// overwriting the cache entry on completion. Previously returned bundles
// are untouched: callers keep showing the last known state until the new
// cycle settles.
func (o *Orchestrator) Refetch(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	return o.GetAnalytics(ctx, workspaceID, true)
}

// runCycle performs one concurrent three-feed fetch cycle.
func (o *Orchestrator) runCycle(ctx context.Context, workspaceID string, force bool) *datatypes.FeedBundle {
	cycleID := uuid.NewString()
	started := time.Now()
	o.metrics.CycleStarted()
	o.log.Debug("fetch cycle started", "cycle_id", cycleID, "workspace_id", workspaceID, "force", force)

	bundle := &datatypes.FeedBundle{WorkspaceID: workspaceID}

	// Settle-all join: each feed writes its own bundle field and nothing
	// short-circuits. errgroup is the wrong primitive here, it cancels
	// siblings on first error.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		feed, err := o.fetcher.FetchGraph(ctx, workspaceID)
		if err != nil {
			feed = datatypes.GraphError(err.Error())
		}
		bundle.Graph = feed
		o.feedSettled(workspaceID, datatypes.FeedGraph, feed.Status)
	}()

	go func() {
		defer wg.Done()
		feed, err := o.fetcher.FetchPredictive(ctx, workspaceID)
		if err != nil {
			feed = datatypes.PredictiveError(err.Error())
		}
		bundle.Predictive = feed
		o.feedSettled(workspaceID, datatypes.FeedPredictive, feed.Status)
	}()

	go func() {
		defer wg.Done()
		feed, err := o.fetcher.FetchCorrelation(ctx, workspaceID)
		if err != nil {
			feed = datatypes.CorrelationError(err.Error())
		}
		bundle.Correlation = feed
		o.feedSettled(workspaceID, datatypes.FeedCorrelation, feed.Status)
	}()

	wg.Wait()

	bundle.CapturedAt = o.clock.Now()
	o.cache.Set(workspaceID, bundle)
	o.persistSnapshot(ctx, bundle)

	elapsed := time.Since(started)
	o.metrics.CycleDone(elapsed)
	o.log.Info("fetch cycle settled",
		"cycle_id", cycleID,
		"workspace_id", workspaceID,
		"graph_status", string(bundle.Graph.Status),
		"predictive_status", string(bundle.Predictive.Status),
		"correlation_status", string(bundle.Correlation.Status),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	return bundle
}

func (o *Orchestrator) feedSettled(workspaceID string, kind datatypes.FeedKind, status datatypes.FeedStatus) {
	if o.observer != nil {
		o.observer(workspaceID, kind, status)
	}
}

// persistSnapshot writes the completed bundle to the snapshot store.
// Best-effort: a persistence failure never fails the cycle.
func (o *Orchestrator) persistSnapshot(ctx context.Context, bundle *datatypes.FeedBundle) {
	if o.snapshots == nil {
		return
	}
	// The bundle is already settled; a caller hang-up should not lose it.
	putCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := o.snapshots.Put(putCtx, bundle); err != nil {
		o.log.Warn("snapshot persistence failed", "workspace_id", bundle.WorkspaceID, "error", err)
	}
}
