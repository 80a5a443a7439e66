// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the intelligence
// service.
//
// # Description
//
// Metrics cover the full fetch cycle:
//   - Feed fetches by kind and outcome (ok, empty, error, fallback)
//   - Fallback substitutions (transport failures masked by samples)
//   - Cache lookups (hit, miss, bypass)
//   - Fetch and cycle latency histograms
//   - In-flight cycle gauge
//
// Metrics are exposed on /metrics. All operations are thread-safe via
// Prometheus's internal locking, and every recording helper is nil-safe so
// tests can run components without a metrics instance.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all intelligence service metrics.
const metricsNamespace = "groundsight"

// Subsystem for analytics fetch metrics.
const analyticsSubsystem = "intelligence"

// Fetch outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeError    = "error"
	OutcomeFallback = "fallback"
)

// Cache lookup label values.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

// Metrics holds all Prometheus metrics for the analytics orchestrator.
//
// Initialize once at startup via NewMetrics. A nil *Metrics is a valid
// no-op recorder.
type Metrics struct {
	// FetchesTotal counts individual feed fetches.
	// Labels: feed (graph, predictive, correlation), outcome (ok, empty, error, fallback)
	FetchesTotal *prometheus.CounterVec

	// FallbacksTotal counts transport failures masked by sample substitution.
	// Labels: feed
	FallbacksTotal *prometheus.CounterVec

	// CacheLookupsTotal counts workspace cache lookups.
	// Labels: result (hit, miss, bypass)
	CacheLookupsTotal *prometheus.CounterVec

	// FetchDurationSeconds measures single-feed fetch latency.
	// Labels: feed
	FetchDurationSeconds *prometheus.HistogramVec

	// CycleDurationSeconds measures full three-feed cycle latency.
	CycleDurationSeconds prometheus.Histogram

	// InFlightCycles gauges currently running fetch cycles.
	InFlightCycles prometheus.Gauge
}

// NewMetrics creates and registers all analytics metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "feed_fetches_total",
			Help:      "Feed fetches by kind and outcome.",
		}, []string{"feed", "outcome"}),

		FallbacksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "feed_fallbacks_total",
			Help:      "Transport failures substituted with deterministic samples.",
		}, []string{"feed"}),

		CacheLookupsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "cache_lookups_total",
			Help:      "Workspace cache lookups by result.",
		}, []string{"result"}),

		FetchDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "feed_fetch_duration_seconds",
			Help:      "Latency of individual feed fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"feed"}),

		CycleDurationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "cycle_duration_seconds",
			Help:      "Latency of full three-feed fetch cycles.",
			Buckets:   prometheus.DefBuckets,
		}),

		InFlightCycles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: analyticsSubsystem,
			Name:      "in_flight_cycles",
			Help:      "Fetch cycles currently in flight.",
		}),
	}
}

// ObserveFetch records one feed fetch with its outcome and latency.
func (m *Metrics) ObserveFetch(feed, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(feed, outcome).Inc()
	m.FetchDurationSeconds.WithLabelValues(feed).Observe(elapsed.Seconds())
}

// RecordFallback records a sample substitution for the given feed.
func (m *Metrics) RecordFallback(feed string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(feed).Inc()
}

// RecordCacheLookup records a cache lookup result.
func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookupsTotal.WithLabelValues(result).Inc()
}

// CycleStarted marks a fetch cycle as in flight.
func (m *Metrics) CycleStarted() {
	if m == nil {
		return
	}
	m.InFlightCycles.Inc()
}

// CycleDone marks a fetch cycle as settled and records its latency.
func (m *Metrics) CycleDone(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.InFlightCycles.Dec()
	m.CycleDurationSeconds.Observe(elapsed.Seconds())
}
