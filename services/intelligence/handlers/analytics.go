// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/groundsight/groundsight/pkg/validation"
	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// AnalyticsProvider is the orchestrator surface the HTTP layer depends on.
type AnalyticsProvider interface {
	GetAnalytics(ctx context.Context, workspaceID string, forceRefresh bool) (*datatypes.FeedBundle, error)
	Refetch(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error)
}

// GetAnalytics returns the analytics bundle for a workspace.
//
// GET /v1/workspaces/:workspaceId/analytics?force=true
//
// The force query parameter bypasses the cycle cache. Malformed force
// values are treated as false.
func GetAnalytics(provider AnalyticsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := validation.SanitizeWorkspaceID(c.Param("workspaceId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		force, _ := strconv.ParseBool(c.Query("force"))

		bundle, err := provider.GetAnalytics(c.Request.Context(), workspaceID, force)
		if err != nil {
			slog.Error("analytics lookup failed", "workspace_id", workspaceID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics lookup failed"})
			return
		}

		c.JSON(http.StatusOK, bundle)
	}
}

// RefreshAnalytics forces a fresh fetch cycle for a workspace,
// bypassing and then replacing its cache entry.
//
// POST /v1/workspaces/:workspaceId/analytics/refresh
func RefreshAnalytics(provider AnalyticsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := validation.SanitizeWorkspaceID(c.Param("workspaceId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		bundle, err := provider.Refetch(c.Request.Context(), workspaceID)
		if err != nil {
			slog.Error("analytics refresh failed", "workspace_id", workspaceID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "analytics refresh failed"})
			return
		}

		c.JSON(http.StatusOK, bundle)
	}
}
