// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Schema validation for raw feed response bodies.
//
// Validation and normalization are deliberately separate from fetching:
// Parse* functions are pure and take raw bytes, so the same contract is
// enforced whether the bytes came from the network, a snapshot store, or
// a test fixture.
package datatypes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// feedValidate is the shared validator instance for feed schemas.
// validator.Validate is safe for concurrent use after registration.
var feedValidate = validator.New(validator.WithRequiredStructEnabled())

// =============================================================================
// Validation Errors
// =============================================================================

// FieldIssue is a single field-level schema violation.
type FieldIssue struct {
	// Field is the namespaced field path, e.g. "Graph.Edges[2].Source".
	Field string `json:"field"`

	// Constraint is the violated rule, e.g. "required" or "lte".
	Constraint string `json:"constraint"`

	// Message is a human-readable description of the violation.
	Message string `json:"message"`
}

// ValidationError reports that a response body does not conform to the
// expected feed schema.
//
// This is a contract mismatch with the backend. It must never be masked by
// fallback sampling or silently converted into an "empty" or "error" feed
// state by the fetch layer; the orchestrator decides how to surface it.
type ValidationError struct {
	Kind   FeedKind     `json:"kind"`
	Issues []FieldIssue `json:"issues"`
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return fmt.Sprintf("%s feed failed schema validation", e.Kind)
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Message)
	}
	return fmt.Sprintf("%s feed failed schema validation: %s", e.Kind, strings.Join(parts, "; "))
}

// IsValidationError reports whether err is (or wraps) a *ValidationError,
// returning it when so.
func IsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// newValidationError converts an error returned by the validator (or the
// JSON decoder) into a *ValidationError for the given feed kind.
//
// Malformed JSON counts as a schema failure: the backend promised a JSON
// body of a known shape and did not deliver one.
func newValidationError(kind FeedKind, err error) *ValidationError {
	ve := &ValidationError{Kind: kind}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			ve.Issues = append(ve.Issues, FieldIssue{
				Field:      trimNamespace(fe.Namespace()),
				Constraint: fe.Tag(),
				Message:    fmt.Sprintf("field %q violates %q", trimNamespace(fe.Namespace()), fe.Tag()),
			})
		}
		return ve
	}

	ve.Issues = append(ve.Issues, FieldIssue{
		Field:      "(body)",
		Constraint: "json",
		Message:    fmt.Sprintf("body is not valid JSON for the %s schema: %v", kind, err),
	})
	return ve
}

// trimNamespace drops the leading struct name from a validator namespace,
// e.g. "GraphIntelligence.Graph.Nodes[0].ID" -> "Graph.Nodes[0].ID".
func trimNamespace(ns string) string {
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// =============================================================================
// Parse Functions
// =============================================================================

// ParseGraph validates and normalizes a raw graph feed body.
//
// On success the returned feed is fully normalized (edge weights defaulted,
// zero-element "ok" demoted to "empty"). On failure the error is a
// *ValidationError carrying the field-level issues.
func ParseGraph(data []byte) (GraphIntelligence, error) {
	var feed GraphIntelligence
	if err := json.Unmarshal(data, &feed); err != nil {
		return GraphIntelligence{}, newValidationError(FeedGraph, err)
	}
	if err := feedValidate.Struct(feed); err != nil {
		return GraphIntelligence{}, newValidationError(FeedGraph, err)
	}
	return NormalizeGraph(feed), nil
}

// ParsePredictive validates and normalizes a raw predictive feed body.
func ParsePredictive(data []byte) (PredictiveIntelligence, error) {
	var feed PredictiveIntelligence
	if err := json.Unmarshal(data, &feed); err != nil {
		return PredictiveIntelligence{}, newValidationError(FeedPredictive, err)
	}
	if err := feedValidate.Struct(feed); err != nil {
		return PredictiveIntelligence{}, newValidationError(FeedPredictive, err)
	}
	return NormalizePredictive(feed), nil
}

// ParseCorrelation validates and normalizes a raw cross-correlation feed body.
func ParseCorrelation(data []byte) (CrossCorrelationIntelligence, error) {
	var feed CrossCorrelationIntelligence
	if err := json.Unmarshal(data, &feed); err != nil {
		return CrossCorrelationIntelligence{}, newValidationError(FeedCorrelation, err)
	}
	if err := feedValidate.Struct(feed); err != nil {
		return CrossCorrelationIntelligence{}, newValidationError(FeedCorrelation, err)
	}
	return NormalizeCorrelation(feed), nil
}
