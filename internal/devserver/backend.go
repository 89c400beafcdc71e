// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
)

// Backend aggregates the devserver state.
type Backend struct {
	Auth  *Auth
	Blobs *BlobStore

	// S3 is nil unless an S3 bucket is configured.
	S3 *S3Presigner

	Resources    map[string]*Collection
	StorageLimit int64
	Version      string
}

// New builds the backend for cfg.
func New(ctx context.Context, cfg *config.DevServerConfig, logger *logger.Logger) (*Backend, error) {
	blobs, err := NewBlobStore(cfg.Storage.BlobDir, strings.TrimRight(cfg.PublicURL, "/")+"/blobs", cfg.Auth.SignKey)
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}

	b := &Backend{
		Auth:         NewAuth(cfg.Auth, 0),
		Blobs:        blobs,
		StorageLimit: cfg.Storage.Limit,
		Version:      cfg.Version,
		Resources: map[string]*Collection{
			ResourceFarms:           NewCollection(ResourceFarms, "name", "area_name", "crop_type", "region"),
			ResourceDetections:      NewCollection(ResourceDetections, "detected_disease", "notes"),
			ResourceWeather:         NewCollection(ResourceWeather, "condition"),
			ResourceAlerts:          NewCollection(ResourceAlerts, "title", "message"),
			ResourceMarketPrices:    NewCollection(ResourceMarketPrices, "crop", "market"),
			ResourceRecommendations: NewCollection(ResourceRecommendations, "title", "description"),
		},
	}

	if cfg.Storage.S3.Bucket != "" {
		if b.S3, err = NewS3Presigner(ctx, cfg.Storage.S3); err != nil {
			return nil, err
		}
		logger.Info().Str("func", "devserver.New").Str("bucket", cfg.Storage.S3.Bucket).Msg("s3 presigning enabled")
	}

	logger.Info().Str("func", "devserver.New").Str("blob_dir", cfg.Storage.BlobDir).Int("objects", len(blobs.objects)).Msg("devserver backend ready")
	return b, nil
}
