// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"maps"
	"time"
)

// UploadStatus is the lifecycle state of a single upload.
//
// Allowed transitions:
//
//	uploading -> completed (terminal)
//	uploading -> queued    (transient failure while offline, retries left)
//	uploading -> failed    (terminal)
//	queued    -> uploading (connectivity restored)
//	queued    -> failed    (retry budget exhausted)
type UploadStatus string

const (
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusCompleted UploadStatus = "completed"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusQueued    UploadStatus = "queued"
)

// Terminal reports whether no further transition is possible from s.
func (s UploadStatus) Terminal() bool {
	return s == UploadStatusCompleted || s == UploadStatusFailed
}

// UploadRecord tracks one upload from its start to a terminal state.
// Records are owned by the upload manager; everything handed out to callers
// is a copy produced by [UploadRecord.Clone].
type UploadRecord struct {
	ID            string            `json:"id"`
	FileName      string            `json:"file_name"`
	FileSize      int64             `json:"file_size"`
	FileType      string            `json:"file_type"`
	Directory     string            `json:"directory"`
	StorageKey    string            `json:"storage_key"`
	Status        UploadStatus      `json:"status"`
	Progress      float64           `json:"progress"`
	StartTime     time.Time         `json:"start_time"`
	CompletedTime *time.Time        `json:"completed_time,omitempty"`
	Error         string            `json:"error,omitempty"`
	RetryCount    int               `json:"retry_count"`
	MaxRetries    int               `json:"max_retries"`
	Metadata      map[string]string `json:"metadata,omitempty"`

	// URL is the public location of the object once uploaded.
	URL string `json:"url,omitempty"`

	// URLVerified is false when the signing endpoint could not be reached and
	// the transfer went to the computed fallback URL instead.
	URLVerified bool `json:"url_verified"`
}

// Clone returns a deep copy of r that is safe to hand to other goroutines.
func (r UploadRecord) Clone() UploadRecord {
	out := r
	if r.CompletedTime != nil {
		t := *r.CompletedTime
		out.CompletedTime = &t
	}
	if r.Metadata != nil {
		out.Metadata = maps.Clone(r.Metadata)
	}
	return out
}

// RetriesLeft reports whether the record may still be re-attempted.
func (r UploadRecord) RetriesLeft() bool {
	return r.RetryCount < r.MaxRetries
}

// UploadResult is returned by a successful upload.
type UploadResult struct {
	UploadID    string    `json:"upload_id"`
	StorageKey  string    `json:"file_key"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	URL         string    `json:"url"`
	URLVerified bool      `json:"url_verified"`
	Timestamp   time.Time `json:"timestamp"`
}

// UploadEventType names a lifecycle notification.
type UploadEventType string

const (
	UploadStarted   UploadEventType = "upload-started"
	UploadProgress  UploadEventType = "upload-progress"
	UploadCompleted UploadEventType = "upload-completed"
	UploadFailed    UploadEventType = "upload-failed"
	UploadQueued    UploadEventType = "upload-queued"
	UploadResumed   UploadEventType = "upload-resumed"
)

// UploadEvent is delivered to subscribers on every lifecycle transition and
// on every progress increase. Record is a snapshot taken at emission time.
type UploadEvent struct {
	Type   UploadEventType `json:"type"`
	Record UploadRecord    `json:"data"`
}

// StoredFile is the locally persisted metadata of a finished upload.
type StoredFile struct {
	ID          int64        `db:"id" json:"-"`
	UploadID    string       `db:"upload_id" json:"upload_id"`
	FileName    string       `db:"file_name" json:"file_name"`
	FileSize    int64        `db:"file_size" json:"file_size"`
	FileType    string       `db:"file_type" json:"file_type"`
	Directory   string       `db:"directory" json:"directory"`
	StorageKey  string       `db:"storage_key" json:"storage_key"`
	Status      UploadStatus `db:"status" json:"status"`
	URL         string       `db:"url" json:"url"`
	Error       string       `db:"error" json:"error,omitempty"`
	StartedAt   time.Time    `db:"started_at" json:"started_at"`
	CompletedAt *time.Time   `db:"completed_at" json:"completed_at,omitempty"`
	StoredAt    time.Time    `db:"stored_at" json:"stored_at"`
}

// StoredFileFromRecord converts a terminal upload record into its persisted form.
func StoredFileFromRecord(r UploadRecord, storedAt time.Time) StoredFile {
	return StoredFile{
		UploadID:    r.ID,
		FileName:    r.FileName,
		FileSize:    r.FileSize,
		FileType:    r.FileType,
		Directory:   r.Directory,
		StorageKey:  r.StorageKey,
		Status:      r.Status,
		URL:         r.URL,
		Error:       r.Error,
		StartedAt:   r.StartTime,
		CompletedAt: r.CompletedTime,
		StoredAt:    storedAt,
	}
}

// UploadStatistics summarises stored and in-memory upload state.
type UploadStatistics struct {
	TotalFiles       int     `json:"total_files"`
	TotalSize        int64   `json:"total_size"`
	TotalSizeMB      float64 `json:"total_size_mb"`
	ActiveUploads    int     `json:"active_uploads"`
	QueuedUploads    int     `json:"queued_uploads"`
	FailedUploads    int     `json:"failed_uploads"`
	CompletedUploads int     `json:"completed_uploads"`
	AverageFileSize  float64 `json:"average_file_size_kb"`
}

// DownloadResult is the content fetched by a download.
type DownloadResult struct {
	FileName  string    `json:"file_name"`
	Size      int64     `json:"size"`
	Data      []byte    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// DeleteAck confirms a remote delete.
type DeleteAck struct {
	FileKey   string    `json:"file_key"`
	DeletedAt time.Time `json:"deleted_at"`
}
