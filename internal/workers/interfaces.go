// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background workers of the client process
// and a Workers aggregate that runs them together until the context is
// cancelled.
package workers

import (
	"context"

	"github.com/MKhiriev/cropguard/models"
)

// Worker is a background job. Run blocks until ctx is done or the worker
// fails; a nil return after cancellation is a clean stop.
type Worker interface {
	Run(ctx context.Context) error
}

// Pinger probes the backend. A nil error means it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectivityHandler receives connectivity transitions. It is satisfied by
// the upload queue manager.
type ConnectivityHandler interface {
	HandleOnline(ctx context.Context)
	HandleOffline()
	Online() bool
	QueuedUploads() []models.UploadRecord
}
