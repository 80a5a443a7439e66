// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package feedclient fetches the three workspace intelligence feeds from
// the analytics backend.
//
// Each fetch performs a single GET against the backend, validates the body
// against the feed schema, and normalizes the result. The two failure
// classes are handled very differently:
//
//   - Transport failure (connection error, non-2xx status, 30s timeout):
//     the raw error never reaches the caller. The fetch resolves to the
//     feed's deterministic fallback sample so there is always something
//     renderable; the substitution is visible only in logs and metrics.
//
//   - Schema validation failure: returned to the caller as a
//     *datatypes.ValidationError. A contract mismatch with the backend is
//     something sampling cannot safely paper over.
package feedclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/groundsight/groundsight/services/intelligence/observability"
)

const (
	// DefaultTimeout bounds each feed request. A request past this point
	// is aborted and treated as a transport failure.
	DefaultTimeout = 30 * time.Second

	// defaultRateLimit caps outbound requests to the analytics backend.
	defaultRateLimit = rate.Limit(20)
	defaultRateBurst = 10

	// maxBodyBytes caps response bodies to keep a misbehaving backend
	// from exhausting memory.
	maxBodyBytes = 8 << 20 // 8 MiB

	userAgent = "groundsight-intelligence/1.0"
)

// HTTPClient allows injecting a mock transport in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	// BaseURL is the analytics backend root, e.g. "http://feeds:8000".
	BaseURL string

	// Timeout bounds each request. Default: DefaultTimeout.
	Timeout time.Duration

	// HTTPClient overrides the default transport. Mainly for tests.
	HTTPClient HTTPClient

	// Limiter throttles outbound requests. Default: 20 req/s, burst 10.
	Limiter *rate.Limiter

	// Logger receives fetch diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// Metrics records fetch outcomes. Nil disables recording.
	Metrics *observability.Metrics

	// Now supplies timestamps for fallback samples. Default: time.Now.
	Now func() time.Time
}

// Client fetches intelligence feeds for workspaces.
type Client struct {
	baseURL string
	http    HTTPClient
	limiter *rate.Limiter
	log     *slog.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// New creates a feed client for the given backend.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("feedclient: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("feedclient: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(defaultRateLimit, defaultRateBurst)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    httpClient,
		limiter: limiter,
		log:     log.With("component", "feedclient"),
		metrics: cfg.Metrics,
		now:     now,
	}, nil
}

// get performs one GET against a feed endpoint and returns the body.
// Any failure here is a transport failure by definition.
func (c *Client) get(ctx context.Context, path, workspaceID string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := fmt.Sprintf("%s%s?workspaceId=%s", c.baseURL, path, url.QueryEscape(workspaceID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
