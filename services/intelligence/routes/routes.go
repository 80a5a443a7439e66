// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/groundsight/groundsight/services/intelligence/handlers"
)

func SetupRoutes(router *gin.Engine, provider handlers.AnalyticsProvider,
	snapshots handlers.SnapshotReader, registry *prometheus.Registry) {

	router.GET("/health", handlers.HealthCheck)

	if registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	// API version 1 group
	v1 := router.Group("/v1")
	{
		workspaces := v1.Group("/workspaces")
		{
			workspaces.GET("/:workspaceId/analytics", handlers.GetAnalytics(provider))
			workspaces.POST("/:workspaceId/analytics/refresh", handlers.RefreshAnalytics(provider))
		}
		if snapshots != nil {
			workspaces.GET("", handlers.ListSnapshotWorkspaces(snapshots))
			workspaces.GET("/:workspaceId/snapshot", handlers.GetSnapshot(snapshots))
		}
	}
}
