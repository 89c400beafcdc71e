// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/migrations"
)

// psql is the statement builder shared by all repositories. SQLite uses "?"
// placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DB wraps the SQLite connection.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// NewDB wraps an already opened connection.
func NewDB(conn *sql.DB, log *logger.Logger) *DB {
	return &DB{DB: conn, logger: log}
}

// Migrate applies the embedded schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}
