// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/cropguard/internal/service"
)

// ErrUserQuit is returned when the user leaves the view before the upload
// finished.
var ErrUserQuit = errors.New("upload view closed by user")

func humanizeUploadError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrQueued):
		return "Offline: the upload is queued and will resume when the backend is reachable"
	case errors.Is(err, service.ErrFileTooLarge):
		return "File is larger than the configured limit"
	case errors.Is(err, service.ErrAuthExpired):
		return "Session expired, please log in again"
	case errors.Is(err, service.ErrNetworkFailure), errors.Is(err, service.ErrTimeout):
		return "No network or the backend is unavailable"
	case errors.Is(err, service.ErrCancelled):
		return "Upload cancelled"
	}
	return err.Error()
}
