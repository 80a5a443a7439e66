// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package validation provides input validation utilities for security-critical operations.
//
// This package contains validators for user-provided inputs that are used in
// database keys, file paths, or upstream query strings. Using these validators
// prevents injection attacks (query injection, path traversal).
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// workspacePattern matches valid workspace identifiers.
// Allows: lowercase letters, digits, hyphens (w-1, metro-atl-42)
// Max length: 64 characters
var workspacePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{0,63}$`)

// ValidateWorkspaceID validates a workspace identifier before it is used
// as a storage key or forwarded in an upstream query string.
//
// Valid identifiers:
//   - 1-64 characters
//   - Lowercase letters a-z
//   - Digits 0-9
//   - Hyphens (-), not leading
//
// Returns an error if the identifier is invalid.
//
// Example:
//
//	if err := validation.ValidateWorkspaceID(workspaceID); err != nil {
//	    return nil, fmt.Errorf("invalid workspace: %w", err)
//	}
//	// Safe to use as a storage key
func ValidateWorkspaceID(workspaceID string) error {
	if workspaceID == "" {
		return fmt.Errorf("workspace ID cannot be empty")
	}

	if !workspacePattern.MatchString(workspaceID) {
		return fmt.Errorf("invalid workspace ID format: %q (must be 1-64 lowercase alphanumeric chars or hyphens)", workspaceID)
	}

	return nil
}

// ValidateWorkspaceIDs validates multiple workspace identifiers.
// Returns an error listing all invalid identifiers if any fail validation.
func ValidateWorkspaceIDs(workspaceIDs []string) error {
	var invalid []string
	for _, id := range workspaceIDs {
		if err := ValidateWorkspaceID(id); err != nil {
			invalid = append(invalid, id)
		}
	}

	if len(invalid) > 0 {
		return fmt.Errorf("invalid workspace IDs: %v", invalid)
	}
	return nil
}

// SanitizeWorkspaceID normalizes and validates a workspace identifier.
// Returns the lowercase identifier if valid, or an error if invalid.
//
// Use this when you need both validation and normalization:
//
//	safeID, err := validation.SanitizeWorkspaceID(userInput)
//	if err != nil {
//	    return err
//	}
//	// safeID is lowercase and validated
func SanitizeWorkspaceID(workspaceID string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(workspaceID))
	if err := ValidateWorkspaceID(normalized); err != nil {
		return "", err
	}
	return normalized, nil
}
