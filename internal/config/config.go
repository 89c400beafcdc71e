// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// CropGuard client and the development backend. It is populated by merging
// built-in defaults, an optional JSON file, environment variables and
// command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
//
// Every variable is additionally prefixed with CROPGUARD_.
type StructuredConfig struct {
	// App holds process-level settings: version, log file and secrets.
	App App `envPrefix:"APP_"`

	// Adapter holds the REST backend address and request timeout used by
	// the client transport.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local database and remote blob-store settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Upload holds limits applied to file uploads.
	Upload Upload `envPrefix:"UPLOAD_"`

	// Workers holds background worker settings.
	Workers Workers `envPrefix:"WORKERS_"`

	// Server holds development backend settings.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CROPGUARD_CONFIG environment variable or the
	// --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is reported by the version command and the devserver root.
	// Env: CROPGUARD_APP_VERSION
	Version string `env:"VERSION"`

	// LogFile is where the client appends its JSON log. Empty means stdout.
	// Env: CROPGUARD_APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// TokenStoreSecret, when set, encrypts persisted session tokens at rest.
	// Env: CROPGUARD_APP_TOKEN_STORE_SECRET
	TokenStoreSecret string `env:"TOKEN_STORE_SECRET"`
}

// Adapter holds client transport settings.
type Adapter struct {
	// BaseURL is the REST API root, e.g. "http://localhost:8000/api".
	// Env: CROPGUARD_ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single REST call.
	// Env: CROPGUARD_ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups local and remote storage settings.
type Storage struct {
	// DB holds the local SQLite settings.
	DB DB `envPrefix:"DB_"`

	// Blob describes the remote object store uploads are written to.
	Blob Blob `envPrefix:"BLOB_"`

	// MetadataCapacity is how many finished uploads are kept locally.
	// Env: CROPGUARD_STORAGE_METADATA_CAPACITY
	MetadataCapacity int `env:"METADATA_CAPACITY"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path.
	// Env: CROPGUARD_STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Blob describes the remote object store.
type Blob struct {
	// Provider is "aws" or "azure".
	// Env: CROPGUARD_STORAGE_BLOB_PROVIDER
	Provider string `env:"PROVIDER"`

	// Bucket is the S3 bucket or Azure storage account.
	// Env: CROPGUARD_STORAGE_BLOB_BUCKET
	Bucket string `env:"BUCKET"`

	// Region is the AWS region used to build public S3 URLs.
	// Env: CROPGUARD_STORAGE_BLOB_REGION
	Region string `env:"REGION"`

	// PublicBaseURL overrides the computed public object URL prefix.
	// Env: CROPGUARD_STORAGE_BLOB_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
}

// Upload holds upload limits.
type Upload struct {
	// MaxFileSize is the largest accepted file in bytes.
	// Env: CROPGUARD_UPLOAD_MAX_FILE_SIZE
	MaxFileSize int64 `env:"MAX_FILE_SIZE"`

	// Timeout bounds the transfer of a single file.
	// Env: CROPGUARD_UPLOAD_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// MaxRetries is the retry budget of a queued upload.
	// Env: CROPGUARD_UPLOAD_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// SignedURLExpiry is the lifetime requested for pre-signed URLs.
	// Env: CROPGUARD_UPLOAD_SIGNED_URL_EXPIRY
	SignedURLExpiry time.Duration `env:"SIGNED_URL_EXPIRY"`

	// DefaultDirectory is used when the caller passes no directory.
	// Env: CROPGUARD_UPLOAD_DEFAULT_DIRECTORY
	DefaultDirectory string `env:"DEFAULT_DIRECTORY"`

	// DisableEncryption drops the server-side encryption header on PUT.
	// Env: CROPGUARD_UPLOAD_DISABLE_ENCRYPTION
	DisableEncryption bool `env:"DISABLE_ENCRYPTION"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// ProbeInterval is how often the connectivity monitor pings the backend.
	// Env: CROPGUARD_WORKERS_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Server holds development backend settings.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: CROPGUARD_SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// PublicURL is the externally reachable origin used in signed blob URLs.
	// Env: CROPGUARD_SERVER_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`

	// RequestTimeout bounds a single inbound request.
	// Env: CROPGUARD_SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// BlobDir is where uploaded blobs are written.
	// Env: CROPGUARD_SERVER_BLOB_DIR
	BlobDir string `env:"BLOB_DIR"`

	// StorageLimit is the per-user quota reported by /storage/usage.
	// Env: CROPGUARD_SERVER_STORAGE_LIMIT
	StorageLimit int64 `env:"STORAGE_LIMIT"`

	// TokenSignKey signs issued JWTs and blob URL signatures.
	// Env: CROPGUARD_SERVER_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of issued tokens.
	// Env: CROPGUARD_SERVER_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// AccessTokenDuration is the lifetime of an access token.
	// Env: CROPGUARD_SERVER_ACCESS_TOKEN_DURATION
	AccessTokenDuration time.Duration `env:"ACCESS_TOKEN_DURATION"`

	// RefreshTokenDuration is the lifetime of a refresh token.
	// Env: CROPGUARD_SERVER_REFRESH_TOKEN_DURATION
	RefreshTokenDuration time.Duration `env:"REFRESH_TOKEN_DURATION"`

	// S3 enables real S3 presigning when Bucket is set.
	S3 S3 `envPrefix:"S3_"`
}

// S3 holds optional AWS settings for the development backend. When Bucket is
// empty the devserver signs URLs pointing at its own blob endpoint.
type S3 struct {
	Bucket          string `env:"BUCKET" json:"bucket"`
	Region          string `env:"REGION" json:"region"`
	Endpoint        string `env:"ENDPOINT" json:"endpoint"`
	AccessKeyID     string `env:"ACCESS_KEY_ID" json:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" json:"secret_access_key"`
}

// Default values applied before any other source.
const (
	DefaultBaseURL          = "http://localhost:8000/api"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultDSN              = "cropguard.db"
	DefaultProvider         = "aws"
	DefaultBucket           = "cropguard-uploads"
	DefaultRegion           = "us-east-1"
	DefaultMetadataCapacity = 100
	DefaultMaxFileSize      = 50 * 1024 * 1024
	DefaultUploadTimeout    = 5 * time.Minute
	DefaultMaxRetries       = 3
	DefaultSignedURLExpiry  = time.Hour
	DefaultDirectory        = "uploads"
	DefaultProbeInterval    = 30 * time.Second

	DefaultServerAddress        = "localhost:8000"
	DefaultServerPublicURL      = "http://localhost:8000"
	DefaultBlobDir              = "blobs"
	DefaultStorageLimit         = 5 * 1024 * 1024 * 1024
	DefaultTokenIssuer          = "cropguard-devserver"
	DefaultAccessTokenDuration  = 5 * time.Minute
	DefaultRefreshTokenDuration = 24 * time.Hour
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{Version: "dev"},
		Adapter: Adapter{
			BaseURL:        DefaultBaseURL,
			RequestTimeout: DefaultRequestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: DefaultDSN},
			Blob: Blob{
				Provider: DefaultProvider,
				Bucket:   DefaultBucket,
				Region:   DefaultRegion,
			},
			MetadataCapacity: DefaultMetadataCapacity,
		},
		Upload: Upload{
			MaxFileSize:      DefaultMaxFileSize,
			Timeout:          DefaultUploadTimeout,
			MaxRetries:       DefaultMaxRetries,
			SignedURLExpiry:  DefaultSignedURLExpiry,
			DefaultDirectory: DefaultDirectory,
		},
		Workers: Workers{ProbeInterval: DefaultProbeInterval},
		Server: Server{
			HTTPAddress:          DefaultServerAddress,
			PublicURL:            DefaultServerPublicURL,
			RequestTimeout:       DefaultRequestTimeout,
			BlobDir:              DefaultBlobDir,
			StorageLimit:         DefaultStorageLimit,
			TokenIssuer:          DefaultTokenIssuer,
			AccessTokenDuration:  DefaultAccessTokenDuration,
			RefreshTokenDuration: DefaultRefreshTokenDuration,
		},
	}
}
