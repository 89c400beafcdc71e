// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/handler"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/server"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cropguard-devserver",
		Short:         "Development backend for the CropGuard client",
		Long:          "Serves JWT auth, storage URL signing, signed blob uploads and in-memory crop resources.",
		Version:       valueOr(buildVersion, "dev"),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          run,
	}
	config.RegisterDevServerFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	printBuildInfo(cmd)

	log := logger.NewLogger("cropguard-devserver")
	cfg, err := config.GetDevServerConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("error getting configs: %w", err)
	}
	if cfg.LogFile != "" {
		log = logger.NewClientLogger("cropguard-devserver", cfg.LogFile)
	}
	if cfg.Version == "" {
		cfg.Version = valueOr(buildVersion, "dev")
	}

	log.Debug().Str("address", cfg.Address).Str("public_url", cfg.PublicURL).Str("blob_dir", cfg.Storage.BlobDir).Msg("received configs")

	backend, err := devserver.New(cmd.Context(), cfg, log)
	if err != nil {
		return fmt.Errorf("error creating backend: %w", err)
	}

	handlers, err := handler.NewHandlers(backend, cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer(cmd.Context())
}

func printBuildInfo(cmd *cobra.Command) {
	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "Build version: %s\n", valueOr(buildVersion, "N/A"))
	fmt.Fprintf(out, "Build date: %s\n", valueOr(buildDate, "N/A"))
	fmt.Fprintf(out, "Build commit: %s\n", valueOr(buildCommit, "N/A"))
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
