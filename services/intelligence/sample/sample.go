// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package sample generates deterministic fallback payloads for the three
// intelligence feeds.
//
// A sample is substituted only when the transport to the analytics backend
// is unavailable outright (connection failure, non-success status, or
// timeout). A backend that legitimately answers "empty" or "error" is a
// real state and is never replaced by a sample.
//
// Every generator is deterministic: two calls produce structurally equal
// payloads, with the generation timestamp as the only varying field. The
// payloads are schema-valid and survive normalization unchanged.
package sample

import (
	"time"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

func ptr(f float64) *float64 { return &f }

// Graph returns the deterministic fallback graph feed.
func Graph(now time.Time) datatypes.GraphIntelligence {
	return datatypes.GraphIntelligence{
		Kind:        datatypes.FeedGraph,
		Status:      datatypes.StatusOK,
		Summary:     "Sample relationship graph: 4 entities, 3 relationships",
		GeneratedAt: now,
		Graph: &datatypes.GraphPayload{
			Nodes: []datatypes.GraphNode{
				{ID: "sample-site-1", Label: "Riverside Mills parcel", Category: "site", Score: 0.82},
				{ID: "sample-policy-1", Label: "Transit overlay district", Category: "policy", Score: 0.61},
				{ID: "sample-market-1", Label: "Midtown office submarket", Category: "market", Score: 0.47},
				{ID: "sample-comp-1", Label: "Dockside Commons (comp)", Category: "comparable", Score: 0.39},
			},
			Edges: []datatypes.GraphEdge{
				{ID: "sample-edge-1", Source: "sample-site-1", Target: "sample-policy-1", Weight: ptr(0.74)},
				{ID: "sample-edge-2", Source: "sample-site-1", Target: "sample-market-1", Weight: ptr(0.58)},
				{ID: "sample-edge-3", Source: "sample-site-1", Target: "sample-comp-1", Weight: ptr(0.33)},
			},
		},
	}
}

// Predictive returns the deterministic fallback predictive feed.
func Predictive(now time.Time) datatypes.PredictiveIntelligence {
	return datatypes.PredictiveIntelligence{
		Kind:          datatypes.FeedPredictive,
		Status:        datatypes.StatusOK,
		Summary:       "Sample 18-month projection across 3 segments",
		GeneratedAt:   now,
		HorizonMonths: 18,
		Segments: []datatypes.PredictiveSegment{
			{
				SegmentID:   "sample-seg-multifamily",
				SegmentName: "Multifamily rents ($/sqft/yr)",
				Baseline:    31.40,
				Projection:  33.85,
				Probability: 0.72,
			},
			{
				SegmentID:   "sample-seg-office",
				SegmentName: "Office vacancy (%)",
				Baseline:    16.2,
				Projection:  14.9,
				Probability: 0.55,
			},
			{
				SegmentID:   "sample-seg-landvalue",
				SegmentName: "Entitled land value ($/buildable sqft)",
				Baseline:    118.0,
				Projection:  127.5,
				Probability: 0.64,
			},
		},
	}
}

// Correlation returns the deterministic fallback cross-correlation feed.
func Correlation(now time.Time) datatypes.CrossCorrelationIntelligence {
	return datatypes.CrossCorrelationIntelligence{
		Kind:      datatypes.FeedCorrelation,
		Status:    datatypes.StatusOK,
		Summary:   "Sample cross-correlation over 3 driver/outcome pairs",
		UpdatedAt: now,
		Relationships: []datatypes.CorrelationRelationship{
			{
				PairID:      "sample-pair-1",
				Driver:      "transit stop proximity",
				Outcome:     "multifamily absorption rate",
				Coefficient: 0.68,
				PValue:      0.01,
			},
			{
				PairID:      "sample-pair-2",
				Driver:      "permit approval lead time",
				Outcome:     "project IRR",
				Coefficient: -0.41,
				PValue:      0.04,
			},
			{
				PairID:      "sample-pair-3",
				Driver:      "retail vacancy",
				Outcome:     "ground-floor rent growth",
				Coefficient: -0.29,
				PValue:      0.11,
			},
		},
	}
}
