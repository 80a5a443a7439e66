// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analytics

import (
	"sync"
	"time"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// DefaultCacheTTL is how long a cached bundle stays fresh.
const DefaultCacheTTL = 60 * time.Second

// BundleCache is the per-orchestrator TTL cache of feed bundles, keyed by
// workspace identifier.
//
// The cache is an explicit dependency constructed once per orchestrator
// instance. There is deliberately no package-level cache: hidden module
// state leaks across tenants and across tests.
type BundleCache interface {
	// Get returns the cached bundle for a workspace if one exists and is
	// still fresh. Expired entries behave as absent.
	Get(workspaceID string) (*datatypes.FeedBundle, bool)

	// Set stores a bundle for a workspace, replacing any prior entry
	// wholesale. Entries are never merged.
	Set(workspaceID string, bundle *datatypes.FeedBundle)

	// Invalidate drops the entry for a workspace if present.
	Invalidate(workspaceID string)
}

// cacheEntry pairs a bundle with the instant it was stored.
type cacheEntry struct {
	bundle   datatypes.FeedBundle
	storedAt time.Time
}

// memoryCache is the in-memory BundleCache implementation.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	clock   Clock
}

// NewMemoryCache creates an in-memory bundle cache with the given TTL.
// A non-positive ttl falls back to DefaultCacheTTL; a nil clock falls back
// to the system clock.
func NewMemoryCache(ttl time.Duration, clock Clock) BundleCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &memoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		clock:   clock,
	}
}

func (c *memoryCache) Get(workspaceID string) (*datatypes.FeedBundle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[workspaceID]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.storedAt) >= c.ttl {
		delete(c.entries, workspaceID)
		return nil, false
	}

	bundle := entry.bundle
	return &bundle, true
}

func (c *memoryCache) Set(workspaceID string, bundle *datatypes.FeedBundle) {
	if bundle == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[workspaceID] = cacheEntry{bundle: *bundle, storedAt: c.clock.Now()}
}

func (c *memoryCache) Invalidate(workspaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, workspaceID)
}
