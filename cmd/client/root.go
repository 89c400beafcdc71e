// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/MKhiriev/cropguard/internal/client"
	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/tui"
	"github.com/MKhiriev/cropguard/models"
)

// cli carries state shared by subcommands. app is set by the root
// PersistentPreRunE for every command except version.
type cli struct {
	app    *client.App
	cfg    *config.ClientConfig
	log    *logger.Logger
	out    io.Writer
	asJSON bool
	plain  bool
}

// skipAppCommands do not need configuration or local storage.
var skipAppCommands = map[string]bool{
	"cropguard version": true,
}

func newRootCmd(info models.AppBuildInfo) *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           "cropguard",
		Short:         "CropGuard command-line client",
		Long:          "Upload crop images, manage stored files and browse farm advisories from the terminal.",
		Version:       valueOr(info.BuildVersion(), "dev"),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			c.out = cmd.OutOrStdout()
			if skipAppCommands[cmd.CommandPath()] {
				return nil
			}
			return c.open(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if c.app == nil {
				return nil
			}
			return c.app.Close()
		},
	}

	config.RegisterClientFlags(cmd.PersistentFlags())
	cmd.PersistentFlags().BoolVar(&c.asJSON, "json", false, "output in JSON format")
	cmd.PersistentFlags().BoolVar(&c.plain, "plain", false, "disable the interactive progress view")

	cmd.AddCommand(newVersionCmd(c, info))
	cmd.AddCommand(newRegisterCmd(c), newLoginCmd(c), newLogoutCmd(c), newWhoamiCmd(c))
	cmd.AddCommand(newUploadCmd(c), newDownloadCmd(c), newRmCmd(c), newLsCmd(c), newStatCmd(c), newUsageCmd(c))
	cmd.AddCommand(newHistoryCmd(c), newStatsCmd(c), newClearCmd(c))
	cmd.AddCommand(newFarmsCmd(c), newDetectionsCmd(c), newAlertsCmd(c), newWeatherCmd(c), newPricesCmd(c), newRecommendationsCmd(c))

	return cmd
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.GetClientConfig(cmd.Flags())
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.log = logger.NewClientLogger("cropguard-client", cfg.App.LogFile)

	var opts []tea.ProgramOption
	if c.plain {
		opts = append(opts, tea.WithoutRenderer(), tea.WithInput(nil))
	}

	c.app, err = client.NewApp(cmd.Context(), cfg, c.log, opts...)
	return err
}

func newVersionCmd(c *cli, info models.AppBuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return c.print(map[string]string{
				"version": valueOr(info.BuildVersion(), "N/A"),
				"date":    valueOr(info.BuildDate(), "N/A"),
				"commit":  valueOr(info.BuildCommit(), "N/A"),
			}, func(w io.Writer) error {
				_, err := io.WriteString(w, tui.RenderBuildInfo(info)+"\n")
				return err
			})
		},
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
