// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"

	"github.com/MKhiriev/cropguard/internal/adapter"
)

var (
	// ErrFileTooLarge is returned before any I/O when a file exceeds the
	// configured maximum size.
	ErrFileTooLarge = errors.New("file too large")

	// ErrInvalidInput is returned before any I/O for a missing file, an
	// empty file name or an empty storage key.
	ErrInvalidInput = errors.New("invalid input")

	// ErrQueued means the upload failed transiently while offline and will
	// be retried when connectivity returns.
	ErrQueued = errors.New("upload queued for retry")

	ErrDownload = errors.New("download failed")
	ErrDelete   = errors.New("delete failed")

	ErrUploadNotFound = errors.New("upload not found")
)

// Transport errors re-exported so that callers of this package need not
// import adapter.
var (
	ErrAuthExpired    = adapter.ErrAuthExpired
	ErrNetworkFailure = adapter.ErrNetworkFailure
	ErrTimeout        = adapter.ErrTimeout
	ErrCancelled      = adapter.ErrCancelled
)
