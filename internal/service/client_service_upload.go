// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"maps"
	"math"
	"net/url"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/cropguard/internal/adapter"
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/store"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/models"
)

const defaultContentType = "application/octet-stream"

// terminalRetention is how long completed and failed uploads stay
// queryable through GetUploadProgress. The persistent history keeps them
// for good.
const terminalRetention = time.Hour

// uploadEntry is the manager-owned state of one upload. file is kept until
// the record is terminal so that a queued upload can be replayed.
// cancelled is set when CancelUpload arrives before the attempt has
// installed its cancel func.
type uploadEntry struct {
	rec       models.UploadRecord
	file      FileSource
	attempt   int
	cancel    context.CancelFunc
	cancelled bool
}

type subscription struct {
	id uint64
	l  UploadListener
}

type uploadQueueManager struct {
	session adapter.SessionTokenManager
	signer  adapter.URLSigner
	blobs   adapter.BlobTransport
	history store.UploadRecordRepository

	upload config.ClientUpload
	blob   config.ClientBlob

	ids       *utils.UUIDGenerator
	now       func() time.Time
	retention time.Duration

	mu       sync.Mutex
	uploads  map[string]*uploadEntry
	queue    []string
	online   bool
	draining bool

	lmu       sync.RWMutex
	listeners []subscription
	nextSub   uint64

	logger *logger.Logger
}

// NewUploadQueueManager wires the upload manager. The manager starts online;
// connectivity changes are reported through HandleOnline and HandleOffline.
//
// Returns an error if the configured blob provider is not supported.
func NewUploadQueueManager(
	session adapter.SessionTokenManager,
	signer adapter.URLSigner,
	blobs adapter.BlobTransport,
	history store.UploadRecordRepository,
	uploadCfg config.ClientUpload,
	blobCfg config.ClientBlob,
	logger *logger.Logger,
) (UploadQueueManager, error) {
	if !blobCfg.Provider.Valid() {
		return nil, fmt.Errorf("%w: %q", adapter.ErrUnsupportedProvider, blobCfg.Provider)
	}
	if uploadCfg.DefaultDirectory == "" {
		uploadCfg.DefaultDirectory = config.DefaultDirectory
	}

	return &uploadQueueManager{
		session: session,
		signer:  signer,
		blobs:   blobs,
		history: history,
		upload:  uploadCfg,
		blob:    blobCfg,
		ids:       utils.NewUUIDGenerator(),
		now:       time.Now,
		retention: terminalRetention,
		uploads:   make(map[string]*uploadEntry),
		online:    true,
		logger:    logger,
	}, nil
}

// UploadFile implements [UploadQueueManager].
func (m *uploadQueueManager) UploadFile(ctx context.Context, file FileSource, directory string, metadata map[string]string) (models.UploadResult, error) {
	if file == nil {
		return models.UploadResult{}, fmt.Errorf("%w: no file provided", ErrInvalidInput)
	}
	name := path.Base(filepath.ToSlash(strings.TrimSpace(file.Name())))
	if name == "" || name == "." || name == "/" {
		return models.UploadResult{}, fmt.Errorf("%w: file has no name", ErrInvalidInput)
	}
	size := file.Size()
	if size < 0 {
		return models.UploadResult{}, fmt.Errorf("%w: negative file size", ErrInvalidInput)
	}
	if m.upload.MaxFileSize > 0 && size > m.upload.MaxFileSize {
		return models.UploadResult{}, fmt.Errorf("%w: %s is %d bytes, maximum is %.0fMB",
			ErrFileTooLarge, name, size, float64(m.upload.MaxFileSize)/1024/1024)
	}

	directory = strings.Trim(strings.TrimSpace(directory), "/")
	if directory == "" {
		directory = m.upload.DefaultDirectory
	}
	contentType := file.ContentType()
	if contentType == "" {
		contentType = defaultContentType
	}

	now := m.now()
	rec := models.UploadRecord{
		ID:         m.ids.Generate(),
		FileName:   name,
		FileSize:   size,
		FileType:   contentType,
		Directory:  directory,
		StorageKey: fmt.Sprintf("%s/%d-%s", directory, now.UnixMilli(), name),
		Status:     models.UploadStatusUploading,
		StartTime:  now,
		MaxRetries: m.upload.MaxRetries,
		Metadata:   maps.Clone(metadata),
	}

	m.mu.Lock()
	m.pruneLocked(now)
	m.uploads[rec.ID] = &uploadEntry{rec: rec, file: file}
	m.mu.Unlock()

	m.logger.Info().Str("func", "uploadQueueManager.UploadFile").
		Str("upload_id", rec.ID).Str("key", rec.StorageKey).Int64("size", size).Msg("upload started")
	m.emit(models.UploadStarted, rec)

	return m.attempt(ctx, rec.ID, false)
}

// attempt runs one transfer of the upload id. replay is set when the
// attempt comes from draining the queue.
func (m *uploadQueueManager) attempt(ctx context.Context, id string, replay bool) (models.UploadResult, error) {
	m.mu.Lock()
	e, ok := m.uploads[id]
	if !ok {
		m.mu.Unlock()
		return models.UploadResult{}, fmt.Errorf("%w: %s", ErrUploadNotFound, id)
	}
	e.attempt++
	attemptNo := e.attempt
	rec := e.rec.Clone()
	file := e.file

	result := models.UploadResult{
		UploadID:   id,
		StorageKey: rec.StorageKey,
		FileName:   rec.FileName,
		FileSize:   rec.FileSize,
	}

	if e.cancelled {
		e.cancelled = false
		m.mu.Unlock()
		return result, m.fail(ctx, id, attemptNo, fmt.Errorf("upload %s: %w", id, ErrCancelled), replay)
	}

	var cancel context.CancelFunc
	if m.upload.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.upload.Timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	e.cancel = cancel
	m.mu.Unlock()
	defer cancel()

	target, verified := m.uploadURL(ctx, rec)
	if err := m.transfer(ctx, id, attemptNo, target, file, rec); err != nil {
		return result, m.fail(ctx, id, attemptNo, err, replay)
	}

	done := m.complete(ctx, id, attemptNo, verified)
	result.URL = m.publicURL(rec.StorageKey)
	result.URLVerified = verified
	result.Timestamp = done
	return result, nil
}

// uploadURL asks the signer for a PUT URL. If signing fails the public URL
// is used instead and reported as unverified.
func (m *uploadQueueManager) uploadURL(ctx context.Context, rec models.UploadRecord) (string, bool) {
	signed, err := m.signer.SignUpload(ctx, m.blob.Provider, rec.StorageKey, rec.FileType, m.upload.SignedURLExpiry)
	if err == nil {
		return signed, true
	}

	m.logger.Warn().Err(err).Str("func", "uploadQueueManager.uploadURL").
		Str("upload_id", rec.ID).Msg("signing failed, falling back to unverified public url")
	return m.publicURL(rec.StorageKey), false
}

func (m *uploadQueueManager) transfer(ctx context.Context, id string, attemptNo int, target string, file FileSource, rec models.UploadRecord) error {
	body, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", rec.FileName, err)
	}
	defer body.Close()

	headers := map[string]string{
		"Content-Type":          rec.FileType,
		"x-amz-meta-filename":   rec.FileName,
		"x-amz-meta-uploadtime": m.now().UTC().Format(time.RFC3339),
	}
	if m.upload.Encryption {
		headers["x-amz-server-side-encryption"] = "AES256"
	}
	if m.blob.Provider == models.ProviderAzure {
		headers["x-ms-blob-type"] = "BlockBlob"
	}

	return m.blobs.Put(ctx, target, body, rec.FileSize, headers, func(sent, total int64) {
		m.progress(id, attemptNo, sent, total)
	})
}

// progress records a byte counter update. Values that do not exceed the
// current progress, and updates from a superseded attempt, are dropped.
func (m *uploadQueueManager) progress(id string, attemptNo int, sent, total int64) {
	if total <= 0 {
		return
	}
	pct := math.Min(100, math.Floor(float64(sent)*1000/float64(total))/10)

	m.mu.Lock()
	e, ok := m.uploads[id]
	if !ok || e.attempt != attemptNo || e.rec.Status != models.UploadStatusUploading || pct <= e.rec.Progress {
		m.mu.Unlock()
		return
	}
	e.rec.Progress = pct
	snap := e.rec.Clone()
	m.mu.Unlock()

	m.emit(models.UploadProgress, snap)
}

func (m *uploadQueueManager) complete(ctx context.Context, id string, attemptNo int, verified bool) time.Time {
	now := m.now()

	m.mu.Lock()
	e, ok := m.uploads[id]
	if !ok || e.attempt != attemptNo {
		m.mu.Unlock()
		return now
	}
	e.rec.Status = models.UploadStatusCompleted
	e.rec.Progress = 100
	e.rec.CompletedTime = &now
	e.rec.Error = ""
	e.rec.URL = m.publicURL(e.rec.StorageKey)
	e.rec.URLVerified = verified
	e.cancel = nil
	e.file = nil
	snap := e.rec.Clone()
	m.mu.Unlock()

	m.logger.Info().Str("func", "uploadQueueManager.complete").
		Str("upload_id", id).Str("key", snap.StorageKey).Bool("url_verified", verified).Msg("upload completed")
	m.persist(ctx, snap)
	m.emit(models.UploadCompleted, snap)
	return now
}

// fail moves the upload to queued or failed and returns the error for the
// caller.
func (m *uploadQueueManager) fail(ctx context.Context, id string, attemptNo int, cause error, replay bool) error {
	m.mu.Lock()
	e, ok := m.uploads[id]
	if !ok || e.attempt != attemptNo {
		m.mu.Unlock()
		return fmt.Errorf("upload %s: %w", id, cause)
	}
	e.cancel = nil
	e.rec.Error = failureMessage(cause)

	// a transient failure during replay means connectivity did not come back
	if adapter.IsTransient(cause) && e.rec.RetriesLeft() && (replay || !m.online) {
		e.rec.Status = models.UploadStatusQueued
		if replay {
			m.queue = append([]string{id}, m.queue...)
		} else {
			m.queue = append(m.queue, id)
		}
		snap := e.rec.Clone()
		m.mu.Unlock()

		m.logger.Warn().Err(cause).Str("func", "uploadQueueManager.fail").
			Str("upload_id", id).Int("retry_count", snap.RetryCount).Msg("upload queued until connectivity returns")
		m.emit(models.UploadQueued, snap)
		return fmt.Errorf("%w: %s: %w", ErrQueued, snap.FileName, cause)
	}

	now := m.now()
	e.rec.Status = models.UploadStatusFailed
	e.rec.CompletedTime = &now
	e.file = nil
	snap := e.rec.Clone()
	m.mu.Unlock()

	m.logger.Err(cause).Str("func", "uploadQueueManager.fail").
		Str("upload_id", id).Msg("upload failed")
	m.persist(ctx, snap)
	m.emit(models.UploadFailed, snap)
	return fmt.Errorf("upload %s: %w", snap.FileName, cause)
}

// persist appends a terminal record to the local history. A failure there
// does not change the outcome of the upload.
func (m *uploadQueueManager) persist(ctx context.Context, rec models.UploadRecord) {
	if err := m.history.Append(context.WithoutCancel(ctx), models.StoredFileFromRecord(rec, m.now())); err != nil {
		m.logger.Err(err).Str("func", "uploadQueueManager.persist").Str("upload_id", rec.ID).Msg("failed to store upload metadata")
	}
}

// CancelUpload implements [UploadQueueManager].
func (m *uploadQueueManager) CancelUpload(uploadID string) bool {
	m.mu.Lock()
	e, ok := m.uploads[uploadID]
	if !ok {
		m.mu.Unlock()
		return false
	}

	switch e.rec.Status {
	case models.UploadStatusUploading:
		cancel := e.cancel
		if cancel == nil {
			// the attempt has not started yet and will stop on its own
			e.cancelled = true
		}
		m.mu.Unlock()
		if cancel != nil {
			cancel()
		}
		return true

	case models.UploadStatusQueued:
		m.removeQueued(uploadID)
		now := m.now()
		e.rec.Status = models.UploadStatusFailed
		e.rec.Error = "cancelled"
		e.rec.CompletedTime = &now
		e.file = nil
		snap := e.rec.Clone()
		m.mu.Unlock()

		m.persist(context.Background(), snap)
		m.emit(models.UploadFailed, snap)
		return true

	default:
		m.mu.Unlock()
		return false
	}
}

// pruneLocked forgets terminal uploads that finished more than the
// retention window before now. Caller holds m.mu.
func (m *uploadQueueManager) pruneLocked(now time.Time) {
	for id, e := range m.uploads {
		if e.rec.CompletedTime == nil {
			continue
		}
		terminal := e.rec.Status == models.UploadStatusCompleted || e.rec.Status == models.UploadStatusFailed
		if terminal && now.Sub(*e.rec.CompletedTime) > m.retention {
			delete(m.uploads, id)
		}
	}
}

// removeQueued drops id from the queue. Caller holds m.mu.
func (m *uploadQueueManager) removeQueued(id string) {
	for i, q := range m.queue {
		if q == id {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return
		}
	}
}

// GetUploadProgress implements [UploadQueueManager].
func (m *uploadQueueManager) GetUploadProgress(uploadID string) (models.UploadRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.uploads[uploadID]
	if !ok {
		return models.UploadRecord{}, false
	}
	return e.rec.Clone(), true
}

// ActiveUploads implements [UploadQueueManager].
func (m *uploadQueueManager) ActiveUploads() []models.UploadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.UploadRecord, 0)
	for _, e := range m.uploads {
		if e.rec.Status == models.UploadStatusUploading {
			out = append(out, e.rec.Clone())
		}
	}
	slices.SortFunc(out, func(a, b models.UploadRecord) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}

// Subscribe implements [UploadQueueManager].
func (m *uploadQueueManager) Subscribe(l UploadListener) func() {
	m.lmu.Lock()
	m.nextSub++
	id := m.nextSub
	m.listeners = append(m.listeners, subscription{id: id, l: l})
	m.lmu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.lmu.Lock()
			defer m.lmu.Unlock()
			for i, s := range m.listeners {
				if s.id == id {
					m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *uploadQueueManager) emit(t models.UploadEventType, rec models.UploadRecord) {
	m.lmu.RLock()
	subs := m.listeners
	m.lmu.RUnlock()

	for _, s := range subs {
		m.deliver(s.l, models.UploadEvent{Type: t, Record: rec.Clone()})
	}
}

func (m *uploadQueueManager) deliver(l UploadListener, evt models.UploadEvent) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().Str("func", "uploadQueueManager.deliver").
				Str("event", string(evt.Type)).Interface("panic", r).Msg("upload listener panicked")
		}
	}()
	l.OnUploadEvent(evt)
}

// publicURL is the unsigned location of key in the configured blob store.
func (m *uploadQueueManager) publicURL(key string) string {
	escaped := escapeKey(key)

	if m.blob.PublicBaseURL != "" {
		return strings.TrimRight(m.blob.PublicBaseURL, "/") + "/" + escaped
	}

	switch m.blob.Provider {
	case models.ProviderAzure:
		return fmt.Sprintf("https://%s.blob.core.windows.net/%s", m.blob.Bucket, escaped)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.blob.Bucket, m.blob.Region, escaped)
	}
}

func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
