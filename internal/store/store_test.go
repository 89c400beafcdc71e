// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDB(db, logger.Nop()), mock
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func sampleStoredFile(id string) models.StoredFile {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	completed := started.Add(3 * time.Second)
	return models.StoredFile{
		UploadID:    id,
		FileName:    "leaf.jpg",
		FileSize:    2048,
		FileType:    "image/jpeg",
		Directory:   "uploads",
		StorageKey:  "uploads/1740823200000-leaf.jpg",
		Status:      models.UploadStatusCompleted,
		URL:         "https://bucket.s3.us-east-1.amazonaws.com/uploads/1740823200000-leaf.jpg",
		StartedAt:   started,
		CompletedAt: &completed,
		StoredAt:    completed,
	}
}

// ── sqliteKeyValueStore ─────────────────────────────────────────────────────

func TestSQLiteKV_GetFound(t *testing.T) {
	db, mock := newTestDB(t)
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM kv WHERE key = ?")).
		WithArgs(KeyAccessToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("tok"))

	v, ok, err := kv.Get(testContext(), KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_GetMissing(t *testing.T) {
	db, mock := newTestDB(t)
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectQuery("SELECT value FROM kv").
		WithArgs(KeyRefreshToken).
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	_, ok, err := kv.Get(testContext(), KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteKV_GetError(t *testing.T) {
	db, mock := newTestDB(t)
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectQuery("SELECT value FROM kv").WillReturnError(errors.New("disk I/O error"))

	_, _, err := kv.Get(testContext(), KeyAccessToken)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestSQLiteKV_SetUpserts(t *testing.T) {
	db, mock := newTestDB(t)
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv (key,value,updated_at) VALUES (?,?,?) ON CONFLICT(key) DO UPDATE")).
		WithArgs(KeyAccessToken, "tok", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, kv.Set(testContext(), KeyAccessToken, "tok"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Remove(t *testing.T) {
	db, mock := newTestDB(t)
	kv := NewSQLiteKeyValueStore(db, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv WHERE key = ?")).
		WithArgs(KeyRefreshToken).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.Remove(testContext(), KeyRefreshToken))

	mock.ExpectExec("DELETE FROM kv").WillReturnError(errors.New("locked"))
	assert.ErrorIs(t, kv.Remove(testContext(), KeyRefreshToken), ErrExecutingStatement)
}

// ── MemoryKeyValueStore ─────────────────────────────────────────────────────

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKeyValueStore()

	_, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "a", "2"))
	v, ok, _ := kv.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	require.NoError(t, kv.Remove(ctx, "a"))
	require.NoError(t, kv.Remove(ctx, "a"))
	_, ok, _ = kv.Get(ctx, "a")
	assert.False(t, ok)
}

// ── sealedKeyValueStore ─────────────────────────────────────────────────────

func TestSealedKV_EncryptsAndPersistsSalt(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryKeyValueStore()

	kv, err := NewSealedKeyValueStore(ctx, inner, "secret")
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, KeyAccessToken, "plain-token"))

	raw, ok, _ := inner.Get(ctx, KeyAccessToken)
	require.True(t, ok)
	assert.NotEqual(t, "plain-token", raw)

	_, ok, _ = inner.Get(ctx, KeySealSalt)
	assert.True(t, ok, "salt is stored next to the values")

	// a second store over the same inner reuses the salt and can read back
	again, err := NewSealedKeyValueStore(ctx, inner, "secret")
	require.NoError(t, err)
	v, ok, err := again.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plain-token", v)

	wrong, err := NewSealedKeyValueStore(ctx, inner, "other")
	require.NoError(t, err)
	_, ok, err = wrong.Get(ctx, KeyAccessToken)
	assert.Error(t, err)
	assert.False(t, ok)

	_, ok, err = again.Get(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ── uploadRecordRepository ──────────────────────────────────────────────────

func TestNewUploadRecordRepository_InvalidCapacity(t *testing.T) {
	db, _ := newTestDB(t)
	_, err := NewUploadRecordRepository(db, 0, logger.Nop())
	assert.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestUploadRepo_AppendEvicts(t *testing.T) {
	db, mock := newTestDB(t)
	repo, err := NewUploadRecordRepository(db, 100, logger.Nop())
	require.NoError(t, err)
	f := sampleStoredFile("u-1")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO uploaded_files (upload_id,file_name,file_size,file_type,directory,storage_key,status,url,error,started_at,completed_at,stored_at)")).
		WithArgs(f.UploadID, f.FileName, f.FileSize, f.FileType, f.Directory, f.StorageKey,
			"completed", f.URL, "", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(101, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM uploaded_files WHERE id NOT IN (SELECT id FROM uploaded_files ORDER BY id DESC LIMIT ?)")).
		WithArgs(100).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Append(testContext(), f))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadRepo_AppendInsertFails(t *testing.T) {
	db, mock := newTestDB(t)
	repo, _ := NewUploadRecordRepository(db, 10, logger.Nop())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO uploaded_files").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.Append(testContext(), sampleStoredFile("u-1"))
	assert.ErrorIs(t, err, ErrExecutingStatement)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUploadRepo_AppendBeginFails(t *testing.T) {
	db, mock := newTestDB(t)
	repo, _ := NewUploadRecordRepository(db, 10, logger.Nop())

	mock.ExpectBegin().WillReturnError(errors.New("busy"))

	err := repo.Append(testContext(), sampleStoredFile("u-1"))
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestUploadRepo_List(t *testing.T) {
	db, mock := newTestDB(t)
	repo, _ := NewUploadRecordRepository(db, 10, logger.Nop())
	f := sampleStoredFile("u-1")

	rows := sqlmock.NewRows(uploadedFileColumns).
		AddRow(int64(1), f.UploadID, f.FileName, f.FileSize, f.FileType, f.Directory, f.StorageKey,
			"completed", f.URL, "", f.StartedAt, *f.CompletedAt, f.StoredAt).
		AddRow(int64(2), "u-2", "soil.csv", int64(10), "text/csv", "uploads", "uploads/2-soil.csv",
			"failed", "", "network failure", f.StartedAt, nil, f.StoredAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, upload_id, file_name")).WillReturnRows(rows)

	files, err := repo.List(testContext())
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, models.UploadStatusCompleted, files[0].Status)
	require.NotNil(t, files[0].CompletedAt)
	assert.True(t, f.CompletedAt.Equal(*files[0].CompletedAt))
	assert.Equal(t, models.UploadStatusFailed, files[1].Status)
	assert.Nil(t, files[1].CompletedAt)
	assert.Equal(t, "network failure", files[1].Error)
}

func TestUploadRepo_ListQueryError(t *testing.T) {
	db, mock := newTestDB(t)
	repo, _ := NewUploadRecordRepository(db, 10, logger.Nop())

	mock.ExpectQuery("SELECT").WillReturnError(sql.ErrConnDone)

	_, err := repo.List(testContext())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestUploadRepo_Clear(t *testing.T) {
	db, mock := newTestDB(t)
	repo, _ := NewUploadRecordRepository(db, 10, logger.Nop())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM uploaded_files")).WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(testContext()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// ── NewClientStorages (real SQLite) ─────────────────────────────────────────

func TestNewClientStorages_RetentionOnRealSQLite(t *testing.T) {
	ctx := testContext()
	cfg := config.ClientStorage{
		DB:               config.ClientDB{DSN: filepath.Join(t.TempDir(), "nested", "client.db")},
		MetadataCapacity: 3,
	}

	s, err := NewClientStorages(ctx, cfg, "", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, s.Uploads.Append(ctx, sampleStoredFile(id)))
	}

	files, err := s.Uploads.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "c", files[0].UploadID, "oldest entries are evicted first")
	assert.Equal(t, "e", files[2].UploadID)

	require.NoError(t, s.KeyValue.Set(ctx, KeyAccessToken, "tok"))
	v, ok, err := s.KeyValue.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Uploads.Clear(ctx))
	files, err = s.Uploads.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, files)
}
