// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/groundsight/groundsight/pkg/logging"
	"github.com/groundsight/groundsight/services/intelligence/analytics"
	"github.com/groundsight/groundsight/services/intelligence/datatypes"
	"github.com/groundsight/groundsight/services/intelligence/feedclient"
	"github.com/groundsight/groundsight/services/intelligence/observability"
	"github.com/groundsight/groundsight/services/intelligence/routes"
	"github.com/groundsight/groundsight/services/intelligence/sink"
	"github.com/groundsight/groundsight/services/intelligence/snapshotstore"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		// Tracing is optional; leave the default no-op provider in place.
		return func(context.Context) {}, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("groundsight-intelligence")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// snapshotFanout persists cycles to the local store and, when
// configured, mirrors them into InfluxDB.
type snapshotFanout struct {
	store *snapshotstore.Store
	sink  *sink.Sink
}

func (f *snapshotFanout) Put(ctx context.Context, bundle *datatypes.FeedBundle) error {
	if err := f.store.Put(ctx, bundle); err != nil {
		return err
	}
	if f.sink != nil {
		if err := f.sink.Record(ctx, bundle); err != nil {
			// The local store is authoritative; a sink failure should not
			// fail the cycle persistence.
			slog.Warn("influx sink write failed", "workspace_id", bundle.WorkspaceID, "error", err)
		}
	}
	return nil
}

func main() {
	port := os.Getenv("INTELLIGENCE_PORT")
	if port == "" {
		port = "12310"
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogDir:  os.Getenv("LOG_DIR"),
		Service: "intelligence",
		JSON:    true,
	})
	defer logger.Close()
	slog.SetDefault(logger.Slog())

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	backendURL := os.Getenv("ANALYTICS_BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://groundsight-analytics-backend:8900"
		slog.Warn("ANALYTICS_BACKEND_URL not set, using default", "url", backendURL)
	}

	fetcher, err := feedclient.New(feedclient.Config{
		BaseURL: backendURL,
		Logger:  logger.Slog(),
		Metrics: metrics,
	})
	if err != nil {
		log.Fatalf("failed to create feed client: %v", err)
	}

	dbPath := os.Getenv("SNAPSHOT_DB_PATH")
	if dbPath == "" {
		dbPath = "/var/lib/groundsight/snapshots"
	}
	store, err := snapshotstore.Open(snapshotstore.DefaultConfig(dbPath))
	if err != nil {
		log.Fatalf("failed to open snapshot store: %v", err)
	}
	defer store.Close()

	influxSink, closeInflux, err := sink.NewFromEnv()
	if err != nil {
		log.Fatalf("failed to configure influx sink: %v", err)
	}
	if closeInflux != nil {
		defer closeInflux()
	}
	if influxSink != nil {
		slog.Info("influx sink enabled")
	}

	orch, err := analytics.New(analytics.Config{
		Fetcher:   fetcher,
		Logger:    logger.Slog(),
		Metrics:   metrics,
		Snapshots: &snapshotFanout{store: store, sink: influxSink},
	})
	if err != nil {
		log.Fatalf("failed to create orchestrator: %v", err)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("groundsight-intelligence"))

	routes.SetupRoutes(router, orch, store, registry)

	slog.Info("starting the intelligence service", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
