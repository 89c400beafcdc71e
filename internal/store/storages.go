// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
)

// ClientStorages groups the client-side repositories so they can be passed
// around the composition root as one value.
type ClientStorages struct {
	// KeyValue persists session tokens. It is sealed when a token store
	// secret is configured.
	KeyValue KeyValueStore

	// Uploads is the bounded finished-upload history.
	Uploads UploadRecordRepository

	db *DB
}

// NewClientStorages initialises the client storage layer:
//  1. Opens an SQLite connection to cfg.DB.DSN, creating the file if needed.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Builds the key-value store, sealed with tokenSecret when non-empty.
//  4. Builds the upload history with cfg.MetadataCapacity.
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, tokenSecret string, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	kv := NewSQLiteKeyValueStore(db, logger)
	if tokenSecret != "" {
		kv, err = NewSealedKeyValueStore(ctx, kv, tokenSecret)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sealed token store: %w", err)
		}
	}

	uploads, err := NewUploadRecordRepository(db, cfg.MetadataCapacity, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &ClientStorages{KeyValue: kv, Uploads: uploads, db: db}, nil
}

// Close releases the database connection.
func (s *ClientStorages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
