// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides the wire contracts for the intelligence service.
//
// This file contains the three workspace intelligence feed types (graph,
// predictive, cross-correlation) and the aggregate bundle returned by the
// orchestrator. Each feed is a tagged union over three terminal states:
//
//	ok    - populated payload with at least one element
//	empty - the backend had nothing for this workspace
//	error - the feed failed in a caller-visible way
//
// A feed instance holds exactly one status at a time. An "ok" payload whose
// primary collection is empty is not a valid terminal state; the normalizer
// (normalize.go) demotes it to "empty" before it reaches any caller.
//
// For schema validation of raw response bodies, see validate.go.
package datatypes

import "time"

// =============================================================================
// Discriminants
// =============================================================================

// FeedKind identifies one of the three intelligence feed types.
type FeedKind string

const (
	// FeedGraph is the relationship/graph intelligence feed.
	FeedGraph FeedKind = "graph"

	// FeedPredictive is the predictive (forward-looking) intelligence feed.
	FeedPredictive FeedKind = "predictive"

	// FeedCorrelation is the cross-correlation intelligence feed.
	FeedCorrelation FeedKind = "correlation"
)

// Kinds returns the three feed kinds in their canonical order.
func Kinds() []FeedKind {
	return []FeedKind{FeedGraph, FeedPredictive, FeedCorrelation}
}

// FeedStatus is the terminal state of a feed instance.
type FeedStatus string

const (
	// StatusOK means the feed resolved with a populated payload.
	StatusOK FeedStatus = "ok"

	// StatusEmpty means the feed resolved but had no content.
	StatusEmpty FeedStatus = "empty"

	// StatusError means the feed failed in a caller-visible way
	// (schema validation failure or a backend-reported error).
	StatusError FeedStatus = "error"
)

// =============================================================================
// Graph Intelligence
// =============================================================================

// GraphNode is a single entity in the relationship graph.
type GraphNode struct {
	ID       string  `json:"id" validate:"required"`
	Label    string  `json:"label" validate:"required"`
	Category string  `json:"category" validate:"required"`
	Score    float64 `json:"score" validate:"gte=0"`
}

// GraphEdge connects two graph nodes.
//
// Weight is optional on the wire. The normalized form always carries a
// non-nil weight (absent defaults to 0), so downstream consumers never
// have to nil-check it.
type GraphEdge struct {
	ID     string   `json:"id" validate:"required"`
	Source string   `json:"source" validate:"required"`
	Target string   `json:"target" validate:"required"`
	Weight *float64 `json:"weight,omitempty"`
}

// GraphPayload is the node/edge collection of a populated graph feed.
type GraphPayload struct {
	Nodes []GraphNode `json:"nodes" validate:"dive"`
	Edges []GraphEdge `json:"edges" validate:"dive"`
}

// GraphIntelligence is the relationship feed for a workspace.
//
// Exactly one status holds at a time:
//   - ok: Summary, GeneratedAt and Graph are set, Graph has >= 1 element.
//   - empty: only Summary may be set.
//   - error: Error carries the failure message.
type GraphIntelligence struct {
	Kind        FeedKind      `json:"kind" validate:"required,eq=graph"`
	Status      FeedStatus    `json:"status" validate:"required,oneof=ok empty error"`
	Summary     string        `json:"summary,omitempty" validate:"required_if=Status ok"`
	GeneratedAt time.Time     `json:"generatedAt,omitzero" validate:"required_if=Status ok"`
	Graph       *GraphPayload `json:"graph,omitempty" validate:"required_if=Status ok"`
	Error       string        `json:"error,omitempty" validate:"required_if=Status error"`
}

// GraphError builds a graph feed in the error state.
func GraphError(msg string) GraphIntelligence {
	return GraphIntelligence{Kind: FeedGraph, Status: StatusError, Error: msg}
}

// =============================================================================
// Predictive Intelligence
// =============================================================================

// PredictiveSegment is one projected market segment.
//
// Probability is a bounded confidence in [0, 1]; payloads outside the bound
// fail schema validation rather than being clamped.
type PredictiveSegment struct {
	SegmentID   string  `json:"segmentId" validate:"required"`
	SegmentName string  `json:"segmentName" validate:"required"`
	Baseline    float64 `json:"baseline"`
	Projection  float64 `json:"projection"`
	Probability float64 `json:"probability" validate:"gte=0,lte=1"`
}

// PredictiveIntelligence is the forward-looking feed for a workspace.
type PredictiveIntelligence struct {
	Kind          FeedKind            `json:"kind" validate:"required,eq=predictive"`
	Status        FeedStatus          `json:"status" validate:"required,oneof=ok empty error"`
	Summary       string              `json:"summary,omitempty" validate:"required_if=Status ok"`
	GeneratedAt   time.Time           `json:"generatedAt,omitzero" validate:"required_if=Status ok"`
	HorizonMonths int                 `json:"horizonMonths,omitempty" validate:"gte=0"`
	Segments      []PredictiveSegment `json:"segments,omitempty" validate:"dive"`
	Error         string              `json:"error,omitempty" validate:"required_if=Status error"`
}

// PredictiveError builds a predictive feed in the error state.
func PredictiveError(msg string) PredictiveIntelligence {
	return PredictiveIntelligence{Kind: FeedPredictive, Status: StatusError, Error: msg}
}

// =============================================================================
// Cross-Correlation Intelligence
// =============================================================================

// CorrelationRelationship is one driver/outcome pair.
//
// Coefficient is a Pearson-style correlation in [-1, 1] and PValue a
// significance in [0, 1]. Out-of-bound values fail schema validation.
type CorrelationRelationship struct {
	PairID      string  `json:"pairId" validate:"required"`
	Driver      string  `json:"driver" validate:"required"`
	Outcome     string  `json:"outcome" validate:"required"`
	Coefficient float64 `json:"coefficient" validate:"gte=-1,lte=1"`
	PValue      float64 `json:"pValue" validate:"gte=0,lte=1"`
}

// CrossCorrelationIntelligence is the cross-correlation feed for a workspace.
type CrossCorrelationIntelligence struct {
	Kind          FeedKind                  `json:"kind" validate:"required,eq=correlation"`
	Status        FeedStatus                `json:"status" validate:"required,oneof=ok empty error"`
	Summary       string                    `json:"summary,omitempty" validate:"required_if=Status ok"`
	UpdatedAt     time.Time                 `json:"updatedAt,omitzero" validate:"required_if=Status ok"`
	Relationships []CorrelationRelationship `json:"relationships,omitempty" validate:"dive"`
	Error         string                    `json:"error,omitempty" validate:"required_if=Status error"`
}

// CorrelationError builds a correlation feed in the error state.
func CorrelationError(msg string) CrossCorrelationIntelligence {
	return CrossCorrelationIntelligence{Kind: FeedCorrelation, Status: StatusError, Error: msg}
}

// =============================================================================
// Feed Bundle
// =============================================================================

// FeedBundle is the aggregate the orchestrator returns for one workspace:
// the three normalized feed states plus the capture timestamp.
//
// A bundle is the unit of cache expiry. It is always written whole; partial
// bundles are never cached or persisted.
type FeedBundle struct {
	WorkspaceID string                       `json:"workspaceId"`
	CapturedAt  time.Time                    `json:"capturedAt"`
	CacheHit    bool                         `json:"cacheHit"`
	Graph       GraphIntelligence            `json:"graph"`
	Predictive  PredictiveIntelligence       `json:"predictive"`
	Correlation CrossCorrelationIntelligence `json:"correlation"`
}
