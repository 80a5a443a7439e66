// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"strings"
	"testing"
)

const validGraphBody = `{
	"kind": "graph",
	"status": "ok",
	"summary": "2 entities, 1 relationship",
	"generatedAt": "2026-03-14T09:00:00Z",
	"graph": {
		"nodes": [
			{"id": "n1", "label": "Maple Yards", "category": "site", "score": 0.9},
			{"id": "n2", "label": "Metro TOD overlay", "category": "policy", "score": 0.5}
		],
		"edges": [
			{"id": "e1", "source": "n1", "target": "n2"}
		]
	}
}`

// TestParseGraph_ValidBody verifies a well-formed body parses and comes
// back normalized (the omitted edge weight is defaulted).
func TestParseGraph_ValidBody(t *testing.T) {
	feed, err := ParseGraph([]byte(validGraphBody))
	if err != nil {
		t.Fatalf("ParseGraph returned error: %v", err)
	}
	if feed.Status != StatusOK {
		t.Fatalf("status = %q, want ok", feed.Status)
	}
	if len(feed.Graph.Nodes) != 2 || len(feed.Graph.Edges) != 1 {
		t.Fatalf("payload shape wrong: %d nodes, %d edges", len(feed.Graph.Nodes), len(feed.Graph.Edges))
	}
	if feed.Graph.Edges[0].Weight == nil || *feed.Graph.Edges[0].Weight != 0 {
		t.Errorf("edge weight not defaulted: %v", feed.Graph.Edges[0].Weight)
	}
}

// TestParseGraph_WrongDiscriminant verifies a body with a foreign kind is
// a validation failure, not an empty/error feed state.
func TestParseGraph_WrongDiscriminant(t *testing.T) {
	body := strings.Replace(validGraphBody, `"kind": "graph"`, `"kind": "predictive"`, 1)

	_, err := ParseGraph([]byte(body))
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("want *ValidationError, got %T (%v)", err, err)
	}
	if ve.Kind != FeedGraph {
		t.Errorf("validation error kind = %q, want graph", ve.Kind)
	}
}

// TestParseGraph_MissingStatus verifies the status discriminant is required.
func TestParseGraph_MissingStatus(t *testing.T) {
	body := `{"kind": "graph", "summary": "s"}`
	if _, err := ParseGraph([]byte(body)); err == nil {
		t.Fatal("body without status passed validation")
	}
}

// TestParseGraph_UnknownStatus verifies status must be one of ok/empty/error.
func TestParseGraph_UnknownStatus(t *testing.T) {
	body := `{"kind": "graph", "status": "partial"}`
	_, err := ParseGraph([]byte(body))
	if _, ok := IsValidationError(err); !ok {
		t.Fatalf("want *ValidationError for unknown status, got %v", err)
	}
}

// TestParseGraph_NegativeScore verifies node score bounds are enforced.
func TestParseGraph_NegativeScore(t *testing.T) {
	body := strings.Replace(validGraphBody, `"score": 0.9`, `"score": -0.1`, 1)

	_, err := ParseGraph([]byte(body))
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	found := false
	for _, issue := range ve.Issues {
		if strings.Contains(issue.Field, "Score") && issue.Constraint == "gte" {
			found = true
		}
	}
	if !found {
		t.Errorf("no gte issue for Score in %+v", ve.Issues)
	}
}

// TestParseGraph_MalformedJSON verifies that a non-JSON body is reported as
// a schema failure (contract mismatch), never mapped to a feed state.
func TestParseGraph_MalformedJSON(t *testing.T) {
	_, err := ParseGraph([]byte("<html>bad gateway</html>"))
	ve, ok := IsValidationError(err)
	if !ok {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if len(ve.Issues) != 1 || ve.Issues[0].Constraint != "json" {
		t.Errorf("unexpected issues for malformed body: %+v", ve.Issues)
	}
}

// TestParseGraph_EmptyVariant verifies a legitimate "empty" body parses
// without requiring the ok-only fields.
func TestParseGraph_EmptyVariant(t *testing.T) {
	feed, err := ParseGraph([]byte(`{"kind": "graph", "status": "empty", "summary": "nothing yet"}`))
	if err != nil {
		t.Fatalf("empty variant rejected: %v", err)
	}
	if feed.Status != StatusEmpty || feed.Summary != "nothing yet" {
		t.Errorf("unexpected feed: %+v", feed)
	}
}

// TestParseGraph_ErrorVariantRequiresMessage verifies the error variant
// must carry its message.
func TestParseGraph_ErrorVariantRequiresMessage(t *testing.T) {
	if _, err := ParseGraph([]byte(`{"kind": "graph", "status": "error"}`)); err == nil {
		t.Fatal("error variant without message passed validation")
	}
	feed, err := ParseGraph([]byte(`{"kind": "graph", "status": "error", "error": "upstream 500"}`))
	if err != nil {
		t.Fatalf("error variant rejected: %v", err)
	}
	if feed.Error != "upstream 500" {
		t.Errorf("error message lost: %+v", feed)
	}
}

// TestParsePredictive_ProbabilityBounds verifies probability outside [0, 1]
// fails validation and is never clamped.
func TestParsePredictive_ProbabilityBounds(t *testing.T) {
	template := `{
		"kind": "predictive",
		"status": "ok",
		"summary": "1 segment",
		"generatedAt": "2026-03-14T09:00:00Z",
		"horizonMonths": 12,
		"segments": [
			{"segmentId": "s1", "segmentName": "Mid-rise", "baseline": 410, "projection": 432, "probability": PROB}
		]
	}`

	for _, tc := range []struct {
		prob string
		ok   bool
	}{
		{"0", true},
		{"1", true},
		{"0.62", true},
		{"-0.01", false},
		{"1.01", false},
	} {
		body := strings.Replace(template, "PROB", tc.prob, 1)
		_, err := ParsePredictive([]byte(body))
		if tc.ok && err != nil {
			t.Errorf("probability %s rejected: %v", tc.prob, err)
		}
		if !tc.ok {
			if _, isVE := IsValidationError(err); !isVE {
				t.Errorf("probability %s: want validation error, got %v", tc.prob, err)
			}
		}
	}
}

// TestParsePredictive_NegativeHorizon verifies horizonMonths must be
// non-negative.
func TestParsePredictive_NegativeHorizon(t *testing.T) {
	body := `{
		"kind": "predictive", "status": "ok", "summary": "s",
		"generatedAt": "2026-03-14T09:00:00Z", "horizonMonths": -3,
		"segments": [{"segmentId": "s1", "segmentName": "n", "baseline": 1, "projection": 2, "probability": 0.5}]
	}`
	if _, err := ParsePredictive([]byte(body)); err == nil {
		t.Fatal("negative horizon passed validation")
	}
}

// TestParseCorrelation_CoefficientAndPValueBounds verifies coefficient in
// [-1, 1] and pValue in [0, 1].
func TestParseCorrelation_CoefficientAndPValueBounds(t *testing.T) {
	template := `{
		"kind": "correlation",
		"status": "ok",
		"summary": "1 pair",
		"updatedAt": "2026-03-14T09:00:00Z",
		"relationships": [
			{"pairId": "p1", "driver": "transit access", "outcome": "absorption rate",
			 "coefficient": COEF, "pValue": PVAL}
		]
	}`

	for _, tc := range []struct {
		coef, pval string
		ok         bool
	}{
		{"0.8", "0.02", true},
		{"-1", "0", true},
		{"1", "1", true},
		{"1.2", "0.05", false},
		{"-1.01", "0.05", false},
		{"0.5", "1.5", false},
		{"0.5", "-0.1", false},
	} {
		body := strings.Replace(template, "COEF", tc.coef, 1)
		body = strings.Replace(body, "PVAL", tc.pval, 1)
		_, err := ParseCorrelation([]byte(body))
		if tc.ok && err != nil {
			t.Errorf("coef=%s pValue=%s rejected: %v", tc.coef, tc.pval, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("coef=%s pValue=%s passed validation", tc.coef, tc.pval)
		}
	}
}

// TestParseCorrelation_ZeroRelationshipsDemoted verifies the parse pipeline
// applies normalization: a schema-valid "ok" body with zero relationships
// comes back as "empty".
func TestParseCorrelation_ZeroRelationshipsDemoted(t *testing.T) {
	body := `{
		"kind": "correlation", "status": "ok", "summary": "scan complete",
		"updatedAt": "2026-03-14T09:00:00Z", "relationships": []
	}`
	feed, err := ParseCorrelation([]byte(body))
	if err != nil {
		t.Fatalf("ParseCorrelation returned error: %v", err)
	}
	if feed.Status != StatusEmpty {
		t.Fatalf("status = %q, want empty", feed.Status)
	}
	if feed.Summary != "scan complete" {
		t.Errorf("summary not preserved: %q", feed.Summary)
	}
}
