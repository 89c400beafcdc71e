// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the lifecycle contract of the client application.
type Client interface {
	// RunWorkers blocks running background jobs until ctx is done.
	RunWorkers(ctx context.Context) error

	// Close releases resources held by the client.
	Close() error
}
