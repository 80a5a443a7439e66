// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package validation

import (
	"testing"
)

func TestValidateWorkspaceID(t *testing.T) {
	tests := []struct {
		name        string
		workspaceID string
		wantErr     bool
	}{
		// Valid identifiers
		{"simple", "w-1", false},
		{"single char", "a", false},
		{"with digits", "metro-atl-42", false},
		{"all digits", "12345", false},
		{"max length", "abcdefghijklmnopqrstuvwxyz0123456789-abcdefghijklmnopqrstuvwx-z", false},

		// Invalid identifiers - injection attempts
		{"empty", "", true},
		{"query injection", `w-1"&admin=true`, true},
		{"path traversal", "../etc/passwd", true},
		{"newline injection", "w-1\nX-Injected: 1", true},
		{"uppercase", "W-1", true}, // Must be lowercase
		{"too long", "a-very-long-workspace-identifier-that-goes-past-the-sixty-four-limit", true},
		{"special chars", "w@#$", true},
		{"spaces", "w 1", true},
		{"unicode", "w-1™", true},
		{"starts with hyphen", "-w1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkspaceID(tt.workspaceID)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkspaceID(%q) error = %v, wantErr %v", tt.workspaceID, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkspaceIDs(t *testing.T) {
	tests := []struct {
		name         string
		workspaceIDs []string
		wantErr      bool
	}{
		{"all valid", []string{"w-1", "w-2", "metro-atl"}, false},
		{"empty list", nil, false},
		{"one invalid", []string{"w-1", "BAD", "w-2"}, true},
		{"all invalid", []string{"", "../x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkspaceIDs(tt.workspaceIDs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkspaceIDs(%v) error = %v, wantErr %v", tt.workspaceIDs, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeWorkspaceID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"already clean", "w-1", "w-1", false},
		{"uppercase input", "W-1", "w-1", false},
		{"surrounding space", "  metro-atl \t", "metro-atl", false},
		{"mixed case", "Metro-ATL-42", "metro-atl-42", false},
		{"empty", "", "", true},
		{"injection survives sanitize", "w-1'; drop", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeWorkspaceID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizeWorkspaceID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizeWorkspaceID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
