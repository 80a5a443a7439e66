// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Normalization of validated feed payloads.
//
// Normalization runs after schema validation and does exactly two jobs:
//
//  1. Default a missing graph edge weight to 0, so the normalized form
//     never carries a nil weight.
//  2. Demote an "ok" payload whose primary collection is empty to the
//     "empty" variant, preserving the summary when present.
//
// All functions here are pure and idempotent: normalizing an already
// normalized feed returns an equal value. Inputs are never mutated.
package datatypes

// NormalizeGraph returns the normalized form of a validated graph feed.
//
// The primary collection of a graph feed is its nodes and edges combined;
// an "ok" payload with neither is demoted to "empty".
func NormalizeGraph(in GraphIntelligence) GraphIntelligence {
	if in.Status != StatusOK {
		return in
	}
	if in.Graph == nil || len(in.Graph.Nodes)+len(in.Graph.Edges) == 0 {
		return GraphIntelligence{Kind: FeedGraph, Status: StatusEmpty, Summary: in.Summary}
	}

	out := in
	payload := GraphPayload{
		Nodes: in.Graph.Nodes,
		Edges: make([]GraphEdge, len(in.Graph.Edges)),
	}
	for i, edge := range in.Graph.Edges {
		if edge.Weight == nil {
			zero := 0.0
			edge.Weight = &zero
		}
		payload.Edges[i] = edge
	}
	out.Graph = &payload
	return out
}

// NormalizePredictive returns the normalized form of a validated
// predictive feed. An "ok" payload with zero segments is demoted to
// "empty".
func NormalizePredictive(in PredictiveIntelligence) PredictiveIntelligence {
	if in.Status != StatusOK {
		return in
	}
	if len(in.Segments) == 0 {
		return PredictiveIntelligence{Kind: FeedPredictive, Status: StatusEmpty, Summary: in.Summary}
	}
	return in
}

// NormalizeCorrelation returns the normalized form of a validated
// cross-correlation feed. An "ok" payload with zero relationships is
// demoted to "empty".
func NormalizeCorrelation(in CrossCorrelationIntelligence) CrossCorrelationIntelligence {
	if in.Status != StatusOK {
		return in
	}
	if len(in.Relationships) == 0 {
		return CrossCorrelationIntelligence{Kind: FeedCorrelation, Status: StatusEmpty, Summary: in.Summary}
	}
	return in
}
