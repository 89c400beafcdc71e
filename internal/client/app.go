// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/cropguard/internal/adapter"
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/service"
	"github.com/MKhiriev/cropguard/internal/store"
	"github.com/MKhiriev/cropguard/internal/tui"
	"github.com/MKhiriev/cropguard/internal/workers"
)

// App is the composition root of the client. Every collaborator is built
// here and handed to its users explicitly.
type App struct {
	Session  adapter.SessionTokenManager
	Services *service.ClientServices
	UI       *tui.TUI

	storages *store.ClientStorages
	workers  *workers.Workers
	logger   *logger.Logger
}

var _ Client = (*App)(nil)

// NewApp opens local storage and wires the client. opts are forwarded to the
// terminal UI.
func NewApp(ctx context.Context, cfg *config.ClientConfig, logger *logger.Logger, opts ...tea.ProgramOption) (*App, error) {
	storages, err := store.NewClientStorages(ctx, cfg.Storage, cfg.App.TokenStoreSecret, logger)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	app, err := newApp(ctx, cfg, storages, logger, opts...)
	if err != nil {
		_ = storages.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, cfg *config.ClientConfig, storages *store.ClientStorages, logger *logger.Logger, opts ...tea.ProgramOption) (*App, error) {
	session, err := adapter.NewHTTPSessionManager(ctx, cfg.Adapter, storages.KeyValue, logger)
	if err != nil {
		return nil, fmt.Errorf("create session manager: %w", err)
	}

	services, err := service.NewClientServices(cfg, session, adapter.NewBlobTransport(), storages, logger)
	if err != nil {
		return nil, fmt.Errorf("create client services: %w", err)
	}

	monitor := workers.NewConnectivityMonitor(session, services.Uploads, cfg.Workers.ProbeInterval, logger)

	return &App{
		Session:  session,
		Services: services,
		UI:       tui.New(services.Uploads, logger, opts...),
		storages: storages,
		workers:  workers.NewWorkers(monitor),
		logger:   logger,
	}, nil
}

// RunWorkers runs the background workers until ctx is done.
func (a *App) RunWorkers(ctx context.Context) error {
	a.logger.Debug().Str("func", "App.RunWorkers").Msg("starting background workers")
	return a.workers.Run(ctx)
}

// Close releases local storage.
func (a *App) Close() error {
	return a.storages.Close()
}
