// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/models"
)

const uploadedFilesTable = "uploaded_files"

var uploadedFileColumns = []string{
	"id", "upload_id", "file_name", "file_size", "file_type", "directory",
	"storage_key", "status", "url", "error", "started_at", "completed_at", "stored_at",
}

// uploadRecordRepository is the SQLite-backed [UploadRecordRepository].
type uploadRecordRepository struct {
	*DB
	capacity int
	logger   *logger.Logger
}

// NewUploadRecordRepository returns a repository that retains at most
// capacity entries.
func NewUploadRecordRepository(db *DB, capacity int, logger *logger.Logger) (UploadRecordRepository, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &uploadRecordRepository{DB: db, capacity: capacity, logger: logger}, nil
}

// Append inserts f and trims the table to the newest capacity rows inside
// one transaction.
func (r *uploadRecordRepository) Append(ctx context.Context, f models.StoredFile) error {
	log := logger.FromContext(ctx)

	insertQuery, insertArgs, err := psql.Insert(uploadedFilesTable).
		Columns(uploadedFileColumns[1:]...).
		Values(
			f.UploadID, f.FileName, f.FileSize, f.FileType, f.Directory,
			f.StorageKey, string(f.Status), f.URL, f.Error,
			f.StartedAt, nullTime(f.CompletedAt), f.StoredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	evictQuery, evictArgs, err := psql.Delete(uploadedFilesTable).
		Where("id NOT IN (SELECT id FROM uploaded_files ORDER BY id DESC LIMIT ?)", r.capacity).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "uploadRecordRepository.Append").Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, insertQuery, insertArgs...); err != nil {
		log.Err(err).
			Str("func", "uploadRecordRepository.Append").
			Str("upload_id", f.UploadID).
			Msg("failed to insert uploaded file")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	res, err := tx.ExecContext(ctx, evictQuery, evictArgs...)
	if err != nil {
		log.Err(err).Str("func", "uploadRecordRepository.Append").Msg("failed to evict old uploaded files")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).Str("func", "uploadRecordRepository.Append").Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	if evicted, _ := res.RowsAffected(); evicted > 0 {
		log.Debug().Str("func", "uploadRecordRepository.Append").Int64("evicted", evicted).Msg("trimmed upload history")
	}

	return nil
}

func (r *uploadRecordRepository) List(ctx context.Context) ([]models.StoredFile, error) {
	log := logger.FromContext(ctx)

	query, args, err := psql.Select(uploadedFileColumns...).From(uploadedFilesTable).OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "uploadRecordRepository.List").Msg("failed to query uploaded files")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	files := make([]models.StoredFile, 0, r.capacity)
	for rows.Next() {
		var (
			f           models.StoredFile
			status      string
			completedAt sql.NullTime
		)
		scanErr := rows.Scan(
			&f.ID, &f.UploadID, &f.FileName, &f.FileSize, &f.FileType, &f.Directory,
			&f.StorageKey, &status, &f.URL, &f.Error, &f.StartedAt, &completedAt, &f.StoredAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "uploadRecordRepository.List").Msg("failed to scan uploaded file row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}

		f.Status = models.UploadStatus(status)
		if completedAt.Valid {
			t := completedAt.Time
			f.CompletedAt = &t
		}
		files = append(files, f)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "uploadRecordRepository.List").Msg("error iterating uploaded file rows")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return files, nil
}

func (r *uploadRecordRepository) Clear(ctx context.Context) error {
	query, args, err := psql.Delete(uploadedFilesTable).ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "uploadRecordRepository.Clear").Msg("failed to clear uploaded files")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
