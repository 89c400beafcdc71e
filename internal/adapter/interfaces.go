// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer of the CropGuard client.
//
// [SessionTokenManager] owns the access/refresh token pair and performs every
// REST call against the backend, refreshing the access token transparently
// when the server answers 401. Concurrent 401s share one refresh.
// [URLSigner] obtains pre-signed upload URLs through the session manager, and
// [BlobTransport] moves bytes to and from those URLs with progress reporting.
//
// Transport failures are classified into the sentinels in errors.go
// ([ErrNetworkFailure], [ErrTimeout], [ErrCancelled]) and non-2xx responses
// become [*APIError], so that callers can use [errors.Is] and [errors.As]
// without knowing about HTTP.
package adapter

import (
	"context"
	"io"
	"time"

	"github.com/MKhiriev/cropguard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// SessionTokenManager holds the client session and performs authenticated
// REST calls. All methods are safe for concurrent use.
type SessionTokenManager interface {
	// Request sends method to endpoint (relative to the configured base URL).
	// body may be nil, a JSON-serialisable value, []byte or io.Reader; the
	// last two are sent verbatim. When requiresAuth is set the bearer token
	// is attached, and a 401 triggers one refresh followed by one replay.
	// A failed refresh, or a second 401 after a successful one, returns
	// [ErrAuthExpired] and clears the session.
	Request(ctx context.Context, endpoint, method string, body any, requiresAuth bool) (Result, error)

	// Login exchanges credentials for a token pair and stores it. Backend
	// errors are returned unchanged.
	Login(ctx context.Context, email, password string) (models.Session, error)

	// Register creates an account. It does not log in.
	Register(ctx context.Context, req models.RegisterRequest) (Result, error)

	// Refresh renews the access token with the stored refresh token. It is
	// coalesced with any refresh already in flight. On failure the session
	// is cleared and [ErrAuthExpired] is returned.
	Refresh(ctx context.Context) (models.Session, error)

	// Logout clears both tokens. It is idempotent.
	Logout(ctx context.Context)

	// Session returns a snapshot of the current session.
	Session() models.Session

	// IsAuthenticated reports whether an access token is held.
	IsAuthenticated() bool

	// Ping checks that the backend is reachable. Any HTTP response below 500
	// counts as reachable.
	Ping(ctx context.Context) error
}

// URLSigner obtains pre-signed upload URLs from the backend.
type URLSigner interface {
	// SignUpload returns a URL that accepts a PUT of key with contentType
	// for the given provider.
	SignUpload(ctx context.Context, provider models.Provider, key, contentType string, expiry time.Duration) (string, error)
}

// ProgressFunc receives the number of bytes transferred so far and the
// expected total.
type ProgressFunc func(sent, total int64)

// BlobTransport moves object bytes directly to and from the blob store.
type BlobTransport interface {
	// Put streams size bytes from body to url with the given headers,
	// reporting progress as bytes are consumed.
	Put(ctx context.Context, url string, body io.Reader, size int64, headers map[string]string, onProgress ProgressFunc) error

	// Get downloads the object at url.
	Get(ctx context.Context, url string) ([]byte, error)
}
