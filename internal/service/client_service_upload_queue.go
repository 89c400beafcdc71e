// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"

	"github.com/MKhiriev/cropguard/models"
)

// HandleOnline implements [UploadQueueManager]. Only one drain runs at a
// time; a call made while draining just marks the manager online.
func (m *uploadQueueManager) HandleOnline(ctx context.Context) {
	m.mu.Lock()
	m.online = true
	if m.draining {
		m.mu.Unlock()
		return
	}
	m.draining = true
	pending := len(m.queue)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.draining = false
		m.mu.Unlock()
	}()

	if pending > 0 {
		m.logger.Info().Str("func", "uploadQueueManager.HandleOnline").Int("queued", pending).Msg("connectivity restored, replaying queued uploads")
	}

	for ctx.Err() == nil {
		id, snap, next := m.nextQueued()
		switch next {
		case drainDone:
			return

		case drainExhausted:
			m.logger.Warn().Str("func", "uploadQueueManager.HandleOnline").
				Str("upload_id", id).Int("retry_count", snap.RetryCount).Msg("retry budget exhausted")
			m.persist(ctx, snap)
			m.emit(models.UploadFailed, snap)

		case drainReplay:
			m.emit(models.UploadResumed, snap)
			if _, err := m.attempt(ctx, id, true); errors.Is(err, ErrQueued) {
				m.logger.Info().Str("func", "uploadQueueManager.HandleOnline").
					Str("upload_id", id).Msg("replay failed transiently, pausing queue")
				return
			}
		}
	}
}

type drainStep int

const (
	drainDone drainStep = iota
	drainExhausted
	drainReplay
)

// nextQueued pops the head of the queue and prepares it: records without
// retries left become failed, others go back to uploading with RetryCount
// incremented.
func (m *uploadQueueManager) nextQueued() (string, models.UploadRecord, drainStep) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for m.online && len(m.queue) > 0 {
		id := m.queue[0]
		m.queue = m.queue[1:]

		e, ok := m.uploads[id]
		if !ok || e.rec.Status != models.UploadStatusQueued {
			continue
		}

		if !e.rec.RetriesLeft() {
			now := m.now()
			e.rec.Status = models.UploadStatusFailed
			e.rec.Error = "retry limit reached: " + e.rec.Error
			e.rec.CompletedTime = &now
			e.file = nil
			return id, e.rec.Clone(), drainExhausted
		}

		e.rec.RetryCount++
		e.rec.Status = models.UploadStatusUploading
		e.rec.Error = ""
		return id, e.rec.Clone(), drainReplay
	}

	return "", models.UploadRecord{}, drainDone
}

// HandleOffline implements [UploadQueueManager].
func (m *uploadQueueManager) HandleOffline() {
	m.mu.Lock()
	wasOnline := m.online
	m.online = false
	m.mu.Unlock()

	if wasOnline {
		m.logger.Info().Str("func", "uploadQueueManager.HandleOffline").Msg("connectivity lost, new transient failures will be queued")
	}
}

// Online implements [UploadQueueManager].
func (m *uploadQueueManager) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// QueuedUploads implements [UploadQueueManager].
func (m *uploadQueueManager) QueuedUploads() []models.UploadRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.UploadRecord, 0, len(m.queue))
	for _, id := range m.queue {
		if e, ok := m.uploads[id]; ok {
			out = append(out, e.rec.Clone())
		}
	}
	return out
}
