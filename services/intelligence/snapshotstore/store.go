// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package snapshotstore persists the most recent analytics bundle per
// workspace in an embedded BadgerDB.
//
// The store is a durability layer behind the in-memory cycle cache: on
// restart the service can serve the last captured bundle immediately while
// a fresh cycle runs. Entries carry a TTL so abandoned workspaces age out
// without manual cleanup.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package snapshotstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/groundsight/groundsight/services/intelligence/datatypes"
)

// ErrNotFound is returned by Get when no snapshot exists for a workspace.
var ErrNotFound = errors.New("snapshot not found")

// keyPrefix namespaces snapshot keys so future record types can share the DB.
const keyPrefix = "snapshot/"

// DefaultEntryTTL is how long a snapshot survives without being rewritten.
const DefaultEntryTTL = 14 * 24 * time.Hour

// Config holds configuration for a snapshot store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Required unless InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// EntryTTL is the retention period for a snapshot. Entries older than
	// this are dropped by BadgerDB. Zero means DefaultEntryTTL.
	EntryTTL time.Duration

	// Logger receives BadgerDB's internal log output. If nil, BadgerDB's
	// internal logging is disabled.
	Logger *slog.Logger
}

// DefaultConfig returns production defaults: synchronous writes and the
// default retention window.
func DefaultConfig(path string) Config {
	return Config{
		Path:       path,
		SyncWrites: true,
		EntryTTL:   DefaultEntryTTL,
	}
}

// InMemoryConfig returns configuration optimized for testing: no disk I/O,
// no sync.
func InMemoryConfig() Config {
	return Config{
		InMemory: true,
		EntryTTL: DefaultEntryTTL,
	}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Store is a BadgerDB-backed snapshot store.
//
// Thread Safety: safe for concurrent use.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open creates and opens a snapshot store with the given configuration.
//
// Description:
//
//	Opens a BadgerDB database at the configured path, or in memory if
//	InMemory is true. Creates the directory if it doesn't exist.
//
// Inputs:
//
//	cfg - Store configuration. Path is required unless InMemory is true.
//
// Outputs:
//
//	*Store - The opened store. Caller must call Close() when done.
//	error - Non-nil if path is invalid or database cannot be opened.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = DefaultEntryTTL
	}

	return &Store{db: db, ttl: ttl}, nil
}

// Put writes the bundle as the current snapshot for its workspace,
// replacing any previous snapshot.
//
// Inputs:
//
//	ctx - Context for cancellation (checked before the write).
//	bundle - The bundle to persist. Must carry a workspace ID.
//
// Outputs:
//
//	error - Non-nil if encoding or the write fails.
func (s *Store) Put(ctx context.Context, bundle *datatypes.FeedBundle) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	if bundle == nil || bundle.WorkspaceID == "" {
		return errors.New("bundle must carry a workspace ID")
	}

	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	key := []byte(keyPrefix + bundle.WorkspaceID)
	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, data).WithTTL(s.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("write snapshot for %s: %w", bundle.WorkspaceID, err)
	}
	return nil
}

// Get returns the current snapshot for a workspace, or ErrNotFound when
// none has been captured (or the last one aged out).
func (s *Store) Get(ctx context.Context, workspaceID string) (*datatypes.FeedBundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	if workspaceID == "" {
		return nil, errors.New("workspaceID must not be empty")
	}

	var bundle datatypes.FeedBundle
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + workspaceID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &bundle)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot for %s: %w", workspaceID, err)
	}
	return &bundle, nil
}

// Delete removes the snapshot for a workspace. Deleting a missing
// snapshot is not an error.
func (s *Store) Delete(ctx context.Context, workspaceID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled: %w", err)
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(keyPrefix + workspaceID))
	})
	if err != nil {
		return fmt.Errorf("delete snapshot for %s: %w", workspaceID, err)
	}
	return nil
}

// Workspaces lists the workspace IDs that currently have a snapshot.
func (s *Store) Workspaces(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return ids, nil
}

// Close closes the underlying database. Safe to call once.
func (s *Store) Close() error {
	return s.db.Close()
}
