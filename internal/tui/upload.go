// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/cropguard/internal/service"
	"github.com/MKhiriev/cropguard/models"
)

const maxBarWidth = 60

var defaultWriteClipboard = clipboard.WriteAll

// writeClipboard is replaced in tests.
var writeClipboard = defaultWriteClipboard

type uploadModel struct {
	ctx      context.Context
	uploads  service.UploadQueueManager
	file     service.FileSource
	dir      string
	metadata map[string]string
	copyURL  bool

	progress progress.Model
	spinner  spinner.Model

	uploadID string
	record   models.UploadRecord
	result   models.UploadResult
	err      error
	status   string
	done     bool
	quit     bool
}

func newUploadModel(ctx context.Context, uploads service.UploadQueueManager, file service.FileSource, dir string, metadata map[string]string, copyURL bool) uploadModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	return uploadModel{
		ctx:      ctx,
		uploads:  uploads,
		file:     file,
		dir:      dir,
		metadata: metadata,
		copyURL:  copyURL,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxBarWidth)),
		spinner:  s,
	}
}

func (m uploadModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cmdUpload())
}

func (m uploadModel) cmdUpload() tea.Cmd {
	return func() tea.Msg {
		res, err := m.uploads.UploadFile(m.ctx, m.file, m.dir, m.metadata)
		return uploadDoneMsg{result: res, err: err}
	}
}

// cmdCancel runs off the event loop: cancelling a queued upload emits an
// event synchronously, and that event is sent back into this program.
func (m uploadModel) cmdCancel() tea.Cmd {
	id := m.uploadID
	return func() tea.Msg {
		m.uploads.CancelUpload(id)
		return nil
	}
}

func cmdCopyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

// tracks reports whether evt belongs to the upload shown by this view. The
// first started event for the file name fixes the upload ID.
func (m *uploadModel) tracks(evt models.UploadEvent) bool {
	if m.uploadID == "" && evt.Type == models.UploadStarted && evt.Record.FileName == m.file.Name() {
		m.uploadID = evt.Record.ID
	}
	return m.uploadID != "" && evt.Record.ID == m.uploadID
}

func (m uploadModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-8, maxBarWidth))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.quit):
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, keys.cancel):
			if m.done || m.uploadID == "" {
				return m, nil
			}
			m.status = "Cancelling..."
			return m, m.cmdCancel()
		case key.Matches(msg, keys.copy):
			if m.done && m.err == nil && m.result.URL != "" {
				return m, cmdCopyToClipboard(m.result.URL)
			}
		}
		return m, nil

	case uploadEventMsg:
		if !m.tracks(msg.evt) {
			return m, nil
		}
		m.record = msg.evt.Record
		return m, m.progress.SetPercent(m.record.Progress / 100)

	case uploadDoneMsg:
		m.done = true
		m.result, m.err = msg.result, msg.err
		if m.err != nil {
			return m, tea.Quit
		}
		cmds := []tea.Cmd{m.progress.SetPercent(1)}
		if m.copyURL {
			cmds = append(cmds, cmdCopyToClipboard(m.result.URL))
		} else {
			cmds = append(cmds, tea.Quit)
		}
		return m, tea.Sequence(cmds...)

	case copiedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		} else {
			m.status = "URL copied to clipboard"
		}
		if m.copyURL {
			return m, tea.Quit
		}
		return m, nil

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		if p, ok := pm.(progress.Model); ok {
			m.progress = p
		}
		return m, cmd

	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m uploadModel) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (%s)\n\n", fitText(m.file.Name(), maxBarWidth), humanBytes(m.file.Size()))
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")

	switch {
	case m.done && errors.Is(m.err, service.ErrQueued):
		b.WriteString(queuedStyle.Render(humanizeUploadError(m.err)))
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(humanizeUploadError(m.err)))
	case m.done:
		b.WriteString(okStyle.Render("Uploaded"))
		b.WriteString("\n")
		b.WriteString(m.result.URL)
		if !m.result.URLVerified {
			b.WriteString(helpStyle.Render("  (unverified)"))
		}
	case m.record.Status == models.UploadStatusQueued:
		b.WriteString(queuedStyle.Render(fmt.Sprintf("Queued, retry %d of %d", m.record.RetryCount, m.record.MaxRetries)))
	default:
		fmt.Fprintf(&b, "%s Uploading %.1f%%", m.spinner.View(), m.record.Progress)
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(m.status))
	}

	return appStyle.Render(renderPage("UPLOAD", b.String(), "x: cancel  c: copy url  q: quit"))
}
