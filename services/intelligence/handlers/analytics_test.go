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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/sample"
)

// stubProvider records the last call and serves canned bundles.
type stubProvider struct {
	lastWorkspace string
	lastForce     bool
	refetches     int
	err           error
}

func (p *stubProvider) bundle(workspaceID string) *datatypes.FeedBundle {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	return &datatypes.FeedBundle{
		WorkspaceID: workspaceID,
		CapturedAt:  now,
		Graph:       sample.Graph(now),
		Predictive:  sample.Predictive(now),
		Correlation: sample.Correlation(now),
	}
}

func (p *stubProvider) GetAnalytics(ctx context.Context, workspaceID string, forceRefresh bool) (*datatypes.FeedBundle, error) {
	p.lastWorkspace = workspaceID
	p.lastForce = forceRefresh
	if p.err != nil {
		return nil, p.err
	}
	return p.bundle(workspaceID), nil
}

func (p *stubProvider) Refetch(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	p.lastWorkspace = workspaceID
	p.refetches++
	if p.err != nil {
		return nil, p.err
	}
	return p.bundle(workspaceID), nil
}

func newAnalyticsRouter(provider *stubProvider) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/v1/workspaces/:workspaceId/analytics", GetAnalytics(provider))
	router.POST("/v1/workspaces/:workspaceId/analytics/refresh", RefreshAnalytics(provider))
	return router
}

func TestGetAnalytics_OK(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-1/analytics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if provider.lastWorkspace != "w-1" {
		t.Errorf("workspace passed to provider = %q", provider.lastWorkspace)
	}
	if provider.lastForce {
		t.Error("force was true without a force parameter")
	}

	var bundle datatypes.FeedBundle
	if err := json.Unmarshal(w.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("response is not a bundle: %v", err)
	}
	if bundle.WorkspaceID != "w-1" {
		t.Errorf("bundle workspace = %q", bundle.WorkspaceID)
	}
	if bundle.Graph.Status != datatypes.StatusOK {
		t.Errorf("graph status = %q", bundle.Graph.Status)
	}
}

func TestGetAnalytics_ForceQuery(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-1/analytics?force=true", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !provider.lastForce {
		t.Error("force=true was not passed to the provider")
	}
}

func TestGetAnalytics_MalformedForceIsFalse(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-1/analytics?force=banana", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if provider.lastForce {
		t.Error("malformed force value treated as true")
	}
}

func TestGetAnalytics_InvalidWorkspace(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/bad!id/analytics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if provider.lastWorkspace != "" {
		t.Error("invalid workspace reached the provider")
	}
}

func TestGetAnalytics_SanitizesCase(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/W-1/analytics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if provider.lastWorkspace != "w-1" {
		t.Errorf("workspace = %q, want lowercased w-1", provider.lastWorkspace)
	}
}

func TestGetAnalytics_ProviderError(t *testing.T) {
	provider := &stubProvider{err: errors.New("boom")}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/w-1/analytics", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestRefreshAnalytics(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/workspaces/w-1/analytics/refresh", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if provider.refetches != 1 {
		t.Errorf("refetches = %d, want 1", provider.refetches)
	}
}

func TestRefreshAnalytics_InvalidWorkspace(t *testing.T) {
	provider := &stubProvider{}
	router := newAnalyticsRouter(provider)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/workspaces/bad!id/analytics/refresh", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if provider.refetches != 0 {
		t.Error("invalid workspace triggered a refetch")
	}
}
