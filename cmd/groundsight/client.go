// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// serviceClient talks to the intelligence service's HTTP API.
type serviceClient struct {
	baseURL string
	http    *http.Client
}

func newServiceClient(cfg Config) *serviceClient {
	return &serviceClient{
		baseURL: strings.TrimRight(cfg.Endpoint, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
	}
}

func (c *serviceClient) do(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("service returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("service returned %d for %s", resp.StatusCode, path)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", path, err)
		}
	}
	return nil
}

// Analytics fetches the bundle for a workspace, optionally forcing a
// fresh cycle.
func (c *serviceClient) Analytics(ctx context.Context, workspaceID string, force bool) (*datatypes.FeedBundle, error) {
	path := "/v1/workspaces/" + url.PathEscape(workspaceID) + "/analytics"
	if force {
		path += "?force=true"
	}
	var bundle datatypes.FeedBundle
	if err := c.do(ctx, http.MethodGet, path, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Refresh forces a fresh fetch cycle for a workspace.
func (c *serviceClient) Refresh(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	path := "/v1/workspaces/" + url.PathEscape(workspaceID) + "/analytics/refresh"
	var bundle datatypes.FeedBundle
	if err := c.do(ctx, http.MethodPost, path, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// Snapshot returns the last persisted bundle for a workspace.
func (c *serviceClient) Snapshot(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	path := "/v1/workspaces/" + url.PathEscape(workspaceID) + "/snapshot"
	var bundle datatypes.FeedBundle
	if err := c.do(ctx, http.MethodGet, path, &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// SnapshotWorkspaces lists workspaces with a persisted snapshot.
func (c *serviceClient) SnapshotWorkspaces(ctx context.Context) ([]string, error) {
	var resp struct {
		Workspaces []string `json:"workspaces"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/workspaces", &resp); err != nil {
		return nil, err
	}
	return resp.Workspaces, nil
}

// Health checks the service health endpoint.
func (c *serviceClient) Health(ctx context.Context) (map[string]string, error) {
	var resp map[string]string
	if err := c.do(ctx, http.MethodGet, "/health", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
