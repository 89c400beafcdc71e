// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/MKhiriev/cropguard/models"
	"github.com/spf13/pflag"
)

// ClientApp holds client-side application settings derived from the shared
// structured config.
type ClientApp struct {
	Version string
	// LogFile is the JSON log destination; empty means stdout.
	LogFile string
	// TokenStoreSecret enables at-rest encryption of stored tokens.
	TokenStoreSecret string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// BaseURL is the REST API root.
	BaseURL string
	// RequestTimeout is the default timeout for outbound REST requests.
	RequestTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite connection string used by the client.
	DSN string
}

// ClientBlob describes the remote object store.
type ClientBlob struct {
	Provider      models.Provider
	Bucket        string
	Region        string
	PublicBaseURL string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
	// Blob holds remote object store settings.
	Blob ClientBlob
	// MetadataCapacity bounds the local finished-upload history.
	MetadataCapacity int
}

// ClientUpload contains upload limits.
type ClientUpload struct {
	MaxFileSize      int64
	Timeout          time.Duration
	MaxRetries       int
	SignedURLExpiry  time.Duration
	DefaultDirectory string
	Encryption       bool
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// ProbeInterval defines how often the connectivity monitor runs.
	ProbeInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Upload  ClientUpload
	Workers ClientWorkers
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the client runtime, and validates the resulting [ClientConfig].
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig projects cfg into a [ClientConfig] without validating it.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Version:          cfg.App.Version,
			LogFile:          cfg.App.LogFile,
			TokenStoreSecret: cfg.App.TokenStoreSecret,
		},
		Adapter: ClientAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
			Blob: ClientBlob{
				Provider:      models.Provider(cfg.Storage.Blob.Provider),
				Bucket:        cfg.Storage.Blob.Bucket,
				Region:        cfg.Storage.Blob.Region,
				PublicBaseURL: cfg.Storage.Blob.PublicBaseURL,
			},
			MetadataCapacity: cfg.Storage.MetadataCapacity,
		},
		Upload: ClientUpload{
			MaxFileSize:      cfg.Upload.MaxFileSize,
			Timeout:          cfg.Upload.Timeout,
			MaxRetries:       cfg.Upload.MaxRetries,
			SignedURLExpiry:  cfg.Upload.SignedURLExpiry,
			DefaultDirectory: cfg.Upload.DefaultDirectory,
			Encryption:       !cfg.Upload.DisableEncryption,
		},
		Workers: ClientWorkers{ProbeInterval: cfg.Workers.ProbeInterval},
	}
}
