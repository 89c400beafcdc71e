// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import (
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/handler/http"
	"github.com/MKhiriev/cropguard/internal/logger"
)

// Handlers groups the transport handlers of the development backend.
type Handlers struct {
	HTTP *http.Handler
}

// NewHandlers creates a handler for every configured transport.
func NewHandlers(backend *devserver.Backend, cfg *config.DevServerConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Address != "" {
		handlers.HTTP = http.NewHandler(backend, cfg, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
