// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		Version          string `json:"version"`
		LogFile          string `json:"log_file"`
		TokenStoreSecret string `json:"token_store_secret"`
	} `json:"app,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Blob struct {
			Provider      string `json:"provider"`
			Bucket        string `json:"bucket"`
			Region        string `json:"region"`
			PublicBaseURL string `json:"public_base_url"`
		} `json:"blob,omitempty"`

		MetadataCapacity int `json:"metadata_capacity"`
	} `json:"storage,omitempty"`

	Upload struct {
		MaxFileSize       int64    `json:"max_file_size"`
		Timeout           Duration `json:"timeout"`
		MaxRetries        int      `json:"max_retries"`
		SignedURLExpiry   Duration `json:"signed_url_expiry"`
		DefaultDirectory  string   `json:"default_directory"`
		DisableEncryption bool     `json:"disable_encryption"`
	} `json:"upload,omitempty"`

	Workers struct {
		ProbeInterval Duration `json:"probe_interval"`
	} `json:"workers,omitempty"`

	Server struct {
		HTTPAddress          string   `json:"http_address"`
		PublicURL            string   `json:"public_url"`
		RequestTimeout       Duration `json:"request_timeout"`
		BlobDir              string   `json:"blob_dir"`
		StorageLimit         int64    `json:"storage_limit"`
		TokenSignKey         string   `json:"token_sign_key"`
		TokenIssuer          string   `json:"token_issuer"`
		AccessTokenDuration  Duration `json:"access_token_duration"`
		RefreshTokenDuration Duration `json:"refresh_token_duration"`
		S3                   S3       `json:"s3"`
	} `json:"server,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:          jsonCfg.App.Version,
			LogFile:          jsonCfg.App.LogFile,
			TokenStoreSecret: jsonCfg.App.TokenStoreSecret,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
			Blob: Blob{
				Provider:      jsonCfg.Storage.Blob.Provider,
				Bucket:        jsonCfg.Storage.Blob.Bucket,
				Region:        jsonCfg.Storage.Blob.Region,
				PublicBaseURL: jsonCfg.Storage.Blob.PublicBaseURL,
			},
			MetadataCapacity: jsonCfg.Storage.MetadataCapacity,
		},
		Upload: Upload{
			MaxFileSize:       jsonCfg.Upload.MaxFileSize,
			Timeout:           time.Duration(jsonCfg.Upload.Timeout),
			MaxRetries:        jsonCfg.Upload.MaxRetries,
			SignedURLExpiry:   time.Duration(jsonCfg.Upload.SignedURLExpiry),
			DefaultDirectory:  jsonCfg.Upload.DefaultDirectory,
			DisableEncryption: jsonCfg.Upload.DisableEncryption,
		},
		Workers: Workers{
			ProbeInterval: time.Duration(jsonCfg.Workers.ProbeInterval),
		},
		Server: Server{
			HTTPAddress:          jsonCfg.Server.HTTPAddress,
			PublicURL:            jsonCfg.Server.PublicURL,
			RequestTimeout:       time.Duration(jsonCfg.Server.RequestTimeout),
			BlobDir:              jsonCfg.Server.BlobDir,
			StorageLimit:         jsonCfg.Server.StorageLimit,
			TokenSignKey:         jsonCfg.Server.TokenSignKey,
			TokenIssuer:          jsonCfg.Server.TokenIssuer,
			AccessTokenDuration:  time.Duration(jsonCfg.Server.AccessTokenDuration),
			RefreshTokenDuration: time.Duration(jsonCfg.Server.RefreshTokenDuration),
			S3:                   jsonCfg.Server.S3,
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as raw nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
