// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/cropguard/internal/service"
	"github.com/MKhiriev/cropguard/models"
)

var errInvalidMetadata = errors.New("metadata must be key=value")

// parseMetadata turns repeated key=value flags into a map.
func parseMetadata(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if k = strings.TrimSpace(k); !ok || k == "" {
			return nil, fmt.Errorf("%w: %q", errInvalidMetadata, p)
		}
		out[k] = v
	}
	return out, nil
}

func newUploadCmd(c *cli) *cobra.Command {
	var (
		dir     string
		meta    []string
		copyURL bool
		wait    bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a file through a pre-signed URL",
		Long: `Upload a file to the configured blob store with a progress bar.

When the backend is unreachable the upload is queued. With --wait the command
keeps probing the backend and replays the upload once it is reachable again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := service.NewLocalFile(args[0])
			if err != nil {
				return err
			}
			metadata, err := parseMetadata(meta)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			wctx, stopWorkers := context.WithCancel(ctx)
			workersDone := make(chan error, 1)
			go func() { workersDone <- c.app.RunWorkers(wctx) }()
			defer func() {
				stopWorkers()
				<-workersDone
			}()

			res, err := c.app.UI.Upload(ctx, file, dir, metadata, copyURL)
			if errors.Is(err, service.ErrQueued) && wait {
				fmt.Fprintln(cmd.ErrOrStderr(), "Backend unreachable, waiting to retry...")
				err = waitForUpload(ctx, c.app.Services.Uploads, res.UploadID)
			}
			if err != nil {
				return err
			}

			return c.print(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\n", res.URL)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "remote directory (default from config)")
	cmd.Flags().StringArrayVarP(&meta, "meta", "m", nil, "metadata key=value, repeatable")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "copy the public URL to the clipboard")
	cmd.Flags().BoolVar(&wait, "wait", false, "wait for a queued upload to be replayed")

	return cmd
}

// waitForUpload blocks until the upload with id finishes.
func waitForUpload(ctx context.Context, uploads service.UploadQueueManager, id string) error {
	finished := make(chan models.UploadRecord, 1)
	unsubscribe := uploads.Subscribe(service.UploadListenerFunc(func(evt models.UploadEvent) {
		if evt.Record.ID != id {
			return
		}
		if evt.Type == models.UploadCompleted || evt.Type == models.UploadFailed {
			select {
			case finished <- evt.Record:
			default:
			}
		}
	}))
	defer unsubscribe()

	if rec, ok := uploads.GetUploadProgress(id); ok && rec.Status.Terminal() {
		finished <- rec
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case rec := <-finished:
		if rec.Status == models.UploadStatusFailed {
			return fmt.Errorf("upload %s failed: %s", id, rec.Error)
		}
		return nil
	}
}

func newDownloadCmd(c *cli) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download <key>",
		Short: "Download an object by storage key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if output != "" {
				name = filepath.Base(output)
			}
			res, err := c.app.Services.Uploads.DownloadFile(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			if output == "" {
				output = res.FileName
			}
			if err = os.WriteFile(output, res.Data, 0o644); err != nil {
				return err
			}
			return c.print(res, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Saved %s (%d bytes)\n", output, res.Size)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path (default: last key segment)")
	return cmd
}

func newRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <key>",
		Short: "Delete an object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ack, err := c.app.Services.Uploads.DeleteFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(ack, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Deleted %s\n", ack.FileKey)
				return err
			})
		},
	}
}

func newLsCmd(c *cli) *cobra.Command {
	var opts service.ListOptions

	cmd := &cobra.Command{
		Use:   "ls [directory]",
		Short: "List remote objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var dir string
			if len(args) == 1 {
				dir = args[0]
			}
			list, err := c.app.Services.Uploads.ListFiles(cmd.Context(), dir, opts)
			if err != nil {
				return err
			}
			return c.print(list, func(w io.Writer) error {
				rows := make([][]string, 0, len(list.Files))
				for _, f := range list.Files {
					rows = append(rows, []string{f.Key, strconv.FormatInt(f.Size, 10), f.LastModified, f.URL})
				}
				if err := table(w, []string{"KEY", "SIZE", "MODIFIED", "URL"}, rows); err != nil {
					return err
				}
				if list.ContinuationToken != "" {
					_, err = fmt.Fprintf(w, "\nmore results: --token %s\n", list.ContinuationToken)
				}
				return err
			})
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of entries")
	cmd.Flags().StringVar(&opts.ContinuationToken, "token", "", "continuation token from a previous listing")
	return cmd
}

func newStatCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <key>",
		Short: "Show object metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := c.app.Services.Uploads.FileMetadata(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.print(meta, func(w io.Writer) error {
				rows := [][]string{
					{"key", meta.Key},
					{"size", strconv.FormatInt(meta.Size, 10)},
					{"content type", meta.ContentType},
					{"modified", meta.LastModified},
					{"etag", meta.ETag},
				}
				for k, v := range meta.Metadata {
					rows = append(rows, []string{"meta " + k, v})
				}
				return table(w, []string{"FIELD", "VALUE"}, rows)
			})
		},
	}
}

func newUsageCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show storage quota usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := c.app.Services.Uploads.StorageUsage(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(u, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d of %d bytes used (%.2f%%)\n", u.Used, u.Limit, u.Percentage)
				return err
			})
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List finished uploads recorded locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			files, err := c.app.Services.Uploads.StoredFiles(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(files, func(w io.Writer) error {
				rows := make([][]string, 0, len(files))
				for _, f := range files {
					finished := "-"
					if f.CompletedAt != nil {
						finished = f.CompletedAt.Local().Format(time.DateTime)
					}
					rows = append(rows, []string{f.UploadID, f.FileName, string(f.Status), finished, f.StorageKey})
				}
				return table(w, []string{"ID", "FILE", "STATUS", "FINISHED", "KEY"}, rows)
			})
		},
	}
}

func newStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise local upload history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.app.Services.Uploads.Statistics(cmd.Context())
			if err != nil {
				return err
			}
			return c.print(s, func(w io.Writer) error {
				return table(w, []string{"METRIC", "VALUE"}, [][]string{
					{"files", strconv.Itoa(s.TotalFiles)},
					{"total size (MB)", strconv.FormatFloat(s.TotalSizeMB, 'f', 2, 64)},
					{"average size (KB)", strconv.FormatFloat(s.AverageFileSize, 'f', 2, 64)},
					{"completed", strconv.Itoa(s.CompletedUploads)},
					{"failed", strconv.Itoa(s.FailedUploads)},
				})
			})
		},
	}
}

func newClearCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-history",
		Short: "Drop the local upload history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.Services.Uploads.ClearMetadata(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(c.out, "Upload history cleared")
			return nil
		},
	}
}
