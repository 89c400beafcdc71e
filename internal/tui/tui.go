// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package tui renders upload progress in the terminal with bubbletea.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/service"
	"github.com/MKhiriev/cropguard/models"
)

// TUI drives interactive views on top of the upload manager.
type TUI struct {
	uploads service.UploadQueueManager
	logger  *logger.Logger
	opts    []tea.ProgramOption
}

// New returns a TUI. opts are passed to every [tea.NewProgram], e.g.
// [tea.WithoutRenderer] for non-interactive output.
func New(uploads service.UploadQueueManager, logger *logger.Logger, opts ...tea.ProgramOption) *TUI {
	return &TUI{uploads: uploads, logger: logger, opts: opts}
}

// Upload runs file through the upload manager while showing a progress bar.
// With copyURL set the public URL is copied to the clipboard on success.
// Leaving the view early cancels the upload and returns [ErrUserQuit].
func (t *TUI) Upload(ctx context.Context, file service.FileSource, dir string, metadata map[string]string, copyURL bool) (models.UploadResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newUploadModel(ctx, t.uploads, file, dir, metadata, copyURL), t.opts...)

	unsubscribe := t.uploads.Subscribe(service.UploadListenerFunc(func(evt models.UploadEvent) {
		p.Send(uploadEventMsg{evt: evt})
	}))
	defer unsubscribe()

	finalModel, err := p.Run()
	if err != nil {
		return models.UploadResult{}, err
	}

	result, ok := finalModel.(uploadModel)
	if !ok {
		return models.UploadResult{}, tea.ErrProgramKilled
	}
	if result.quit && !result.done {
		t.logger.Info().Str("func", "TUI.Upload").Str("upload_id", result.uploadID).Msg("upload view closed before completion")
		return models.UploadResult{}, ErrUserQuit
	}
	return result.result, result.err
}
