// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/cropguard/models"
)

// UploadListener receives upload lifecycle events. Events are delivered
// synchronously on the goroutine that caused them, so implementations must
// not block. A panicking listener is recovered and logged.
type UploadListener interface {
	OnUploadEvent(evt models.UploadEvent)
}

// UploadListenerFunc adapts a plain function to [UploadListener].
type UploadListenerFunc func(evt models.UploadEvent)

// OnUploadEvent calls f(evt).
func (f UploadListenerFunc) OnUploadEvent(evt models.UploadEvent) { f(evt) }

// ListOptions narrows a remote listing. A zero Limit means 100.
type ListOptions struct {
	Limit             int
	ContinuationToken string
}

// UploadQueueManager uploads files to the blob store through pre-signed URLs,
// tracks every upload, and keeps transiently failed uploads in a FIFO queue
// while offline. All methods are safe for concurrent use.
type UploadQueueManager interface {
	// UploadFile validates file, uploads it under
	// "{directory}/{unixMillis}-{name}" and returns the result.
	//
	// A nil file or empty name returns [ErrInvalidInput] and an oversized
	// file returns [ErrFileTooLarge], both before any network call. If the
	// transfer fails with a network error or a timeout while the manager is
	// offline and retries remain, the upload is queued and the returned
	// error wraps [ErrQueued] together with the cause; the result still
	// carries the upload ID and storage key.
	UploadFile(ctx context.Context, file FileSource, directory string, metadata map[string]string) (models.UploadResult, error)

	// DownloadFile fetches the object at its public URL. Failures wrap
	// [ErrDownload]. An empty fileName defaults to the last key segment.
	DownloadFile(ctx context.Context, storageKey, fileName string) (models.DownloadResult, error)

	// DeleteFile removes the object through the backend. Failures wrap
	// [ErrDelete].
	DeleteFile(ctx context.Context, storageKey string) (models.DeleteAck, error)

	// ListFiles lists remote objects under directory. Every entry carries
	// its public URL.
	ListFiles(ctx context.Context, directory string, opts ListOptions) (models.FileList, error)

	// FileMetadata returns the backend's metadata for one object.
	FileMetadata(ctx context.Context, storageKey string) (models.FileMetadata, error)

	// StorageUsage reports the account quota.
	StorageUsage(ctx context.Context) (models.StorageUsage, error)

	// HandleOnline marks the manager online and drains the queue in FIFO
	// order, returning once the queue is empty, the manager goes offline
	// again, a replay fails transiently, or ctx is done.
	HandleOnline(ctx context.Context)

	// HandleOffline marks the manager offline.
	HandleOffline()

	// Online reports the last connectivity signal.
	Online() bool

	// GetUploadProgress returns a snapshot of the upload with the given ID.
	GetUploadProgress(uploadID string) (models.UploadRecord, bool)

	// ActiveUploads returns snapshots of uploads currently transferring.
	ActiveUploads() []models.UploadRecord

	// QueuedUploads returns snapshots of queued uploads in replay order.
	QueuedUploads() []models.UploadRecord

	// StoredFiles returns the persisted history of finished uploads.
	StoredFiles(ctx context.Context) ([]models.StoredFile, error)

	// Statistics summarises the persisted history and in-memory state.
	Statistics(ctx context.Context) (models.UploadStatistics, error)

	// ClearMetadata drops the persisted history, every tracked upload and
	// the queue.
	ClearMetadata(ctx context.Context) error

	// CancelUpload aborts an in-flight or queued upload; the record becomes
	// failed with error "cancelled". It reports whether anything was
	// cancelled.
	CancelUpload(uploadID string) bool

	// Subscribe registers l for upload events and returns a function that
	// unregisters it.
	Subscribe(l UploadListener) (unsubscribe func())
}

// CropService is the typed client of the advisory REST resources. Every call
// goes through the session manager and therefore requires a login.
type CropService interface {
	ListFarms(ctx context.Context, page models.PageRequest) (models.Page[models.Farm], error)
	SearchFarms(ctx context.Context, query string) (models.Page[models.Farm], error)
	FarmsByRegion(ctx context.Context, region string) (models.Page[models.Farm], error)
	GetFarm(ctx context.Context, id int64) (models.Farm, error)
	CreateFarm(ctx context.Context, farm models.Farm) (models.Farm, error)
	UpdateFarm(ctx context.Context, id int64, patch map[string]any) (models.Farm, error)
	DeleteFarm(ctx context.Context, id int64) error
	FarmWeather(ctx context.Context, id int64) ([]models.Weather, error)
	RecentDetections(ctx context.Context, farmID int64) ([]models.Detection, error)

	ListDetections(ctx context.Context, page models.PageRequest) (models.Page[models.Detection], error)
	FilterDetections(ctx context.Context, disease string) (models.Page[models.Detection], error)
	GetDetection(ctx context.Context, id int64) (models.Detection, error)
	CreateDetection(ctx context.Context, d models.Detection) (models.Detection, error)
	ConfirmDetection(ctx context.Context, id int64, isCorrect bool) error
	DetectionFeedback(ctx context.Context, id int64, feedback models.DetectionFeedback) error

	ListWeather(ctx context.Context, page models.PageRequest) (models.Page[models.Weather], error)

	ListAlerts(ctx context.Context, page models.PageRequest) (models.Page[models.Alert], error)
	UnreadAlerts(ctx context.Context) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, id int64) error
	MarkAllAlertsRead(ctx context.Context) error

	ListMarketPrices(ctx context.Context, page models.PageRequest) (models.Page[models.MarketPrice], error)
	TrendingPrices(ctx context.Context) ([]models.MarketPrice, error)

	ListRecommendations(ctx context.Context, page models.PageRequest) (models.Page[models.Recommendation], error)
	GetRecommendation(ctx context.Context, id int64) (models.Recommendation, error)
	ApplyRecommendation(ctx context.Context, id int64) error
}
