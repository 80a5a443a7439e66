// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groundsight/groundsight/pkg/validation"
	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/snapshotstore"
)

// SnapshotReader is the store surface the snapshot endpoints depend on.
type SnapshotReader interface {
	Get(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error)
	Workspaces(ctx context.Context) ([]string, error)
}

// GetSnapshot returns the last persisted bundle for a workspace. Unlike
// the analytics endpoint it never triggers a fetch cycle, so it is safe
// for dashboards to poll.
//
// GET /v1/workspaces/:workspaceId/snapshot
func GetSnapshot(store SnapshotReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		workspaceID, err := validation.SanitizeWorkspaceID(c.Param("workspaceId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		bundle, err := store.Get(c.Request.Context(), workspaceID)
		if err != nil {
			if errors.Is(err, snapshotstore.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "no snapshot for workspace"})
				return
			}
			slog.Error("snapshot read failed", "workspace_id", workspaceID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot read failed"})
			return
		}

		c.JSON(http.StatusOK, bundle)
	}
}

// ListSnapshotWorkspaces returns the workspace IDs with a persisted
// snapshot.
//
// GET /v1/workspaces
func ListSnapshotWorkspaces(store SnapshotReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := store.Workspaces(c.Request.Context())
		if err != nil {
			slog.Error("snapshot list failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "snapshot list failed"})
			return
		}
		if ids == nil {
			ids = []string{}
		}
		c.JSON(http.StatusOK, gin.H{"workspaces": ids})
	}
}
