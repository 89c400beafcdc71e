// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/cropguard/internal/adapter"
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/store"
)

// ClientServices groups the client-side services built on top of one
// session manager.
type ClientServices struct {
	Uploads UploadQueueManager
	Crops   CropService
}

// NewClientServices wires the upload manager and the crop service.
func NewClientServices(
	cfg *config.ClientConfig,
	session adapter.SessionTokenManager,
	blobs adapter.BlobTransport,
	storages *store.ClientStorages,
	logger *logger.Logger,
) (*ClientServices, error) {
	uploads, err := NewUploadQueueManager(
		session,
		adapter.NewURLSigner(session),
		blobs,
		storages.Uploads,
		cfg.Upload,
		cfg.Storage.Blob,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("create upload manager: %w", err)
	}

	return &ClientServices{
		Uploads: uploads,
		Crops:   NewCropService(session),
	}, nil
}
