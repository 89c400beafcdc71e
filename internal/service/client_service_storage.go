// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"path"
	"strings"

	"github.com/MKhiriev/cropguard/models"
)

const (
	deleteFileEndpoint   = "/storage/delete-file"
	listFilesEndpoint    = "/storage/list-files"
	fileMetadataEndpoint = "/storage/file-metadata"
	storageUsageEndpoint = "/storage/usage"

	defaultListLimit = 100
)

// DownloadFile implements [UploadQueueManager].
func (m *uploadQueueManager) DownloadFile(ctx context.Context, storageKey, fileName string) (models.DownloadResult, error) {
	storageKey = strings.TrimSpace(storageKey)
	if storageKey == "" {
		return models.DownloadResult{}, fmt.Errorf("%w: empty storage key", ErrInvalidInput)
	}

	data, err := m.blobs.Get(ctx, m.publicURL(storageKey))
	if err != nil {
		m.logger.Err(err).Str("func", "uploadQueueManager.DownloadFile").Str("key", storageKey).Msg("download failed")
		return models.DownloadResult{}, wrapAs(ErrDownload, err)
	}

	if fileName == "" {
		fileName = path.Base(storageKey)
	}
	return models.DownloadResult{
		FileName:  fileName,
		Size:      int64(len(data)),
		Data:      data,
		Timestamp: m.now(),
	}, nil
}

// DeleteFile implements [UploadQueueManager].
func (m *uploadQueueManager) DeleteFile(ctx context.Context, storageKey string) (models.DeleteAck, error) {
	storageKey = strings.TrimSpace(storageKey)
	if storageKey == "" {
		return models.DeleteAck{}, fmt.Errorf("%w: empty storage key", ErrInvalidInput)
	}

	_, err := m.session.Request(ctx, deleteFileEndpoint, http.MethodDelete, models.DeleteFileRequest{
		FileKey:  storageKey,
		Provider: m.blob.Provider,
	}, true)
	if err != nil {
		m.logger.Err(err).Str("func", "uploadQueueManager.DeleteFile").Str("key", storageKey).Msg("delete failed")
		return models.DeleteAck{}, wrapAs(ErrDelete, err)
	}

	return models.DeleteAck{FileKey: storageKey, DeletedAt: m.now()}, nil
}

// ListFiles implements [UploadQueueManager].
func (m *uploadQueueManager) ListFiles(ctx context.Context, directory string, opts ListOptions) (models.FileList, error) {
	if opts.Limit <= 0 {
		opts.Limit = defaultListLimit
	}

	res, err := m.session.Request(ctx, listFilesEndpoint, http.MethodPost, models.ListFilesRequest{
		Directory:         directory,
		Provider:          m.blob.Provider,
		Limit:             opts.Limit,
		ContinuationToken: opts.ContinuationToken,
	}, true)
	if err != nil {
		return models.FileList{}, fmt.Errorf("list files: %w", err)
	}

	list := models.FileList{Files: []models.RemoteFile{}}
	if res.NoContent {
		return list, nil
	}
	if err = res.Decode(&list); err != nil {
		return models.FileList{}, fmt.Errorf("list files: %w", err)
	}
	for i := range list.Files {
		list.Files[i].URL = m.publicURL(list.Files[i].Key)
	}
	return list, nil
}

// FileMetadata implements [UploadQueueManager].
func (m *uploadQueueManager) FileMetadata(ctx context.Context, storageKey string) (models.FileMetadata, error) {
	if strings.TrimSpace(storageKey) == "" {
		return models.FileMetadata{}, fmt.Errorf("%w: empty storage key", ErrInvalidInput)
	}

	res, err := m.session.Request(ctx, fileMetadataEndpoint, http.MethodPost, models.FileMetadataRequest{
		FileKey:  storageKey,
		Provider: m.blob.Provider,
	}, true)
	if err != nil {
		return models.FileMetadata{}, fmt.Errorf("file metadata: %w", err)
	}

	var meta models.FileMetadata
	if err = res.Decode(&meta); err != nil {
		return models.FileMetadata{}, fmt.Errorf("file metadata: %w", err)
	}
	return meta, nil
}

// StorageUsage implements [UploadQueueManager].
func (m *uploadQueueManager) StorageUsage(ctx context.Context) (models.StorageUsage, error) {
	res, err := m.session.Request(ctx, storageUsageEndpoint, http.MethodGet, nil, true)
	if err != nil {
		return models.StorageUsage{}, fmt.Errorf("storage usage: %w", err)
	}

	var usage models.StorageUsage
	if err = res.Decode(&usage); err != nil {
		return models.StorageUsage{}, fmt.Errorf("storage usage: %w", err)
	}
	return usage, nil
}

// StoredFiles implements [UploadQueueManager].
func (m *uploadQueueManager) StoredFiles(ctx context.Context) ([]models.StoredFile, error) {
	files, err := m.history.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stored files: %w", err)
	}
	return files, nil
}

// Statistics implements [UploadQueueManager].
func (m *uploadQueueManager) Statistics(ctx context.Context) (models.UploadStatistics, error) {
	files, err := m.StoredFiles(ctx)
	if err != nil {
		return models.UploadStatistics{}, err
	}

	var stats models.UploadStatistics
	stats.TotalFiles = len(files)
	for _, f := range files {
		stats.TotalSize += f.FileSize
		switch f.Status {
		case models.UploadStatusCompleted:
			stats.CompletedUploads++
		case models.UploadStatusFailed:
			stats.FailedUploads++
		}
	}
	stats.TotalSizeMB = round2(float64(stats.TotalSize) / 1024 / 1024)
	if len(files) > 0 {
		stats.AverageFileSize = round2(float64(stats.TotalSize) / float64(len(files)) / 1024)
	}

	m.mu.Lock()
	for _, e := range m.uploads {
		if e.rec.Status == models.UploadStatusUploading {
			stats.ActiveUploads++
		}
	}
	stats.QueuedUploads = len(m.queue)
	m.mu.Unlock()

	return stats, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ClearMetadata implements [UploadQueueManager]. Transfers already running
// are not cancelled; their outcome is simply no longer tracked.
func (m *uploadQueueManager) ClearMetadata(ctx context.Context) error {
	if err := m.history.Clear(ctx); err != nil {
		return fmt.Errorf("clear stored files: %w", err)
	}

	m.mu.Lock()
	m.uploads = make(map[string]*uploadEntry)
	m.queue = nil
	m.mu.Unlock()

	m.logger.Info().Str("func", "uploadQueueManager.ClearMetadata").Msg("upload metadata cleared")
	return nil
}
