// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"strings"
	"time"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/validators"
)

// Handler serves the development backend over HTTP.
type Handler struct {
	backend   *devserver.Backend
	validator validators.Validator

	publicURL      string
	requestTimeout time.Duration

	logger *logger.Logger
}

// NewHandler returns a Handler for backend.
func NewHandler(backend *devserver.Backend, cfg *config.DevServerConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		backend:        backend,
		validator:      validators.NewStorageRequestValidator(),
		publicURL:      strings.TrimRight(cfg.PublicURL, "/"),
		requestTimeout: cfg.RequestTimeout,
		logger:         logger,
	}
}
