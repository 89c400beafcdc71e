// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/cropguard/models"
)

// validate checks invariants shared by every binary: values that can never
// be right regardless of which view is projected.
func (cfg *StructuredConfig) validate() error {
	if p := cfg.Storage.Blob.Provider; p != "" && !models.Provider(p).Valid() {
		return fmt.Errorf("%w: unsupported provider %q", ErrInvalidStorageConfigs, p)
	}
	if cfg.Upload.MaxRetries < 0 {
		return fmt.Errorf("%w: negative retry budget", ErrInvalidUploadConfigs)
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, ":memory:") {
		return ErrInvalidStorageConfigs
	}

	if !cfg.Storage.Blob.Provider.Valid() || cfg.Storage.Blob.Bucket == "" || cfg.Storage.MetadataCapacity <= 0 {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Upload.MaxFileSize <= 0 || cfg.Upload.Timeout <= 0 || cfg.Upload.MaxRetries < 0 || cfg.Upload.SignedURLExpiry <= 0 {
		return ErrInvalidUploadConfigs
	}

	if cfg.Workers.ProbeInterval <= 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *DevServerConfig) validate() error {
	if cfg.Address == "" || cfg.PublicURL == "" || cfg.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.Auth.SignKey == "" || cfg.Auth.AccessDuration <= 0 || cfg.Auth.RefreshDuration <= 0 {
		return ErrInvalidAuthConfigs
	}

	if cfg.Storage.BlobDir == "" || cfg.Storage.Limit <= 0 {
		return ErrInvalidStorageConfigs
	}

	return nil
}
