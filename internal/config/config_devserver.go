// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// DevServerAuth holds token issuing settings.
type DevServerAuth struct {
	SignKey         string
	Issuer          string
	AccessDuration  time.Duration
	RefreshDuration time.Duration
}

// DevServerStorage holds blob storage settings.
type DevServerStorage struct {
	BlobDir string
	Limit   int64
	S3      S3
}

// DevServerConfig is the development backend view of [StructuredConfig].
type DevServerConfig struct {
	Address        string
	PublicURL      string
	RequestTimeout time.Duration
	LogFile        string
	Version        string
	Auth           DevServerAuth
	Storage        DevServerStorage
}

// GetDevServerConfig builds and validates the devserver configuration.
func GetDevServerConfig(fs *pflag.FlagSet) (*DevServerConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := NewDevServerConfig(cfg)
	return serverCfg, serverCfg.validate()
}

// NewDevServerConfig projects cfg into a [DevServerConfig] without validating it.
func NewDevServerConfig(cfg *StructuredConfig) *DevServerConfig {
	return &DevServerConfig{
		Address:        cfg.Server.HTTPAddress,
		PublicURL:      cfg.Server.PublicURL,
		RequestTimeout: cfg.Server.RequestTimeout,
		LogFile:        cfg.App.LogFile,
		Version:        cfg.App.Version,
		Auth: DevServerAuth{
			SignKey:         cfg.Server.TokenSignKey,
			Issuer:          cfg.Server.TokenIssuer,
			AccessDuration:  cfg.Server.AccessTokenDuration,
			RefreshDuration: cfg.Server.RefreshTokenDuration,
		},
		Storage: DevServerStorage{
			BlobDir: cfg.Server.BlobDir,
			Limit:   cfg.Server.StorageLimit,
			S3:      cfg.Server.S3,
		},
	}
}
