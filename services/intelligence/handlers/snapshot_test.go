// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/sample"
	"github.com/groundsight/groundsight/services/intelligence/snapshotstore"
)

// stubSnapshots serves snapshots from a map.
type stubSnapshots struct {
	bundles map[string]*datatypes.FeedBundle
	err     error
}

func (s *stubSnapshots) Get(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	if s.err != nil {
		return nil, s.err
	}
	bundle, ok := s.bundles[workspaceID]
	if !ok {
		return nil, snapshotstore.ErrNotFound
	}
	return bundle, nil
}

func (s *stubSnapshots) Workspaces(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	var ids []string
	for id := range s.bundles {
		ids = append(ids, id)
	}
	return ids, nil
}

func newSnapshotRouter(store SnapshotReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/workspaces", ListSnapshotWorkspaces(store))
	router.GET("/v1/workspaces/:workspaceId/snapshot", GetSnapshot(store))
	return router
}

func TestGetSnapshot_OK(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubSnapshots{bundles: map[string]*datatypes.FeedBundle{
		"w-1": {
			WorkspaceID: "w-1",
			CapturedAt:  now,
			Graph:       sample.Graph(now),
		},
	}}
	router := newSnapshotRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-1/snapshot", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var bundle datatypes.FeedBundle
	if err := json.Unmarshal(w.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("response is not a bundle: %v", err)
	}
	if bundle.WorkspaceID != "w-1" {
		t.Errorf("workspace = %q", bundle.WorkspaceID)
	}
}

func TestGetSnapshot_NotFound(t *testing.T) {
	router := newSnapshotRouter(&stubSnapshots{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-none/snapshot", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestGetSnapshot_InvalidWorkspace(t *testing.T) {
	router := newSnapshotRouter(&stubSnapshots{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/BAD!/snapshot", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestListSnapshotWorkspaces(t *testing.T) {
	now := time.Now()
	store := &stubSnapshots{bundles: map[string]*datatypes.FeedBundle{
		"w-1": {WorkspaceID: "w-1", CapturedAt: now},
		"w-2": {WorkspaceID: "w-2", CapturedAt: now},
	}}
	router := newSnapshotRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp struct {
		Workspaces []string `json:"workspaces"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Workspaces) != 2 {
		t.Errorf("workspaces = %v, want 2 entries", resp.Workspaces)
	}
}

func TestListSnapshotWorkspaces_Empty(t *testing.T) {
	router := newSnapshotRouter(&stubSnapshots{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Body.String(); got != `{"workspaces":[]}` {
		t.Errorf("body = %s, want empty array not null", got)
	}
}
