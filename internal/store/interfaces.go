// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the client's local persistence: a string key-value
// store for session tokens and a bounded history of finished uploads, both
// backed by SQLite.
package store

import (
	"context"

	"github.com/MKhiriev/cropguard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Keys used by the session manager.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

// KeyValueStore persists small string values by key.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; that is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// UploadRecordRepository is the append-only local history of finished
// uploads. It keeps at most a fixed number of entries and evicts the oldest
// first.
type UploadRecordRepository interface {
	// Append stores f and evicts the oldest entries beyond capacity.
	Append(ctx context.Context, f models.StoredFile) error

	// List returns every stored entry, oldest first.
	List(ctx context.Context) ([]models.StoredFile, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
