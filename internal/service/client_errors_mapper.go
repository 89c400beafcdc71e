// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/cropguard/internal/adapter"
)

// failureMessage renders err as the short human-readable text stored in
// UploadRecord.Error.
func failureMessage(err error) string {
	var apiErr *adapter.APIError

	switch {
	case err == nil:
		return ""
	case errors.Is(err, adapter.ErrCancelled):
		return "cancelled"
	case errors.Is(err, adapter.ErrTimeout):
		return "upload timed out"
	case errors.Is(err, adapter.ErrNetworkFailure):
		return "network unavailable"
	case errors.As(err, &apiErr):
		return fmt.Sprintf("storage rejected upload (%d): %s", apiErr.StatusCode, apiErr.Message)
	default:
		return err.Error()
	}
}

// wrapAs tags err with the operation sentinel while keeping the transport
// cause reachable through errors.Is.
func wrapAs(sentinel, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}
