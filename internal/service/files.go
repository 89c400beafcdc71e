// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
)

// FileSource is a file offered for upload. Open may be called more than once:
// a queued upload reopens its source on every retry.
type FileSource interface {
	Name() string
	Size() int64
	ContentType() string
	Open() (io.ReadCloser, error)
}

// LocalFile is a [FileSource] backed by a path on disk.
type LocalFile struct {
	path        string
	size        int64
	contentType string
}

// NewLocalFile stats path and detects its content type from the extension,
// falling back to sniffing the first 512 bytes.
func NewLocalFile(path string) (*LocalFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidInput, path)
	}

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct, err = sniffContentType(path)
		if err != nil {
			return nil, err
		}
	}

	return &LocalFile{path: path, size: info.Size(), contentType: ct}, nil
}

func sniffContentType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return http.DetectContentType(head[:n]), nil
}

func (f *LocalFile) Name() string        { return filepath.Base(f.path) }
func (f *LocalFile) Size() int64         { return f.size }
func (f *LocalFile) ContentType() string { return f.contentType }

func (f *LocalFile) Open() (io.ReadCloser, error) {
	return os.Open(f.path)
}

// BytesFile is an in-memory [FileSource], used for camera captures and tests.
type BytesFile struct {
	name        string
	contentType string
	data        []byte
}

// NewBytesFile wraps data. An empty contentType is detected from data.
func NewBytesFile(name, contentType string, data []byte) *BytesFile {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return &BytesFile{name: name, contentType: contentType, data: data}
}

func (f *BytesFile) Name() string        { return f.name }
func (f *BytesFile) Size() int64         { return int64(len(f.data)) }
func (f *BytesFile) ContentType() string { return f.contentType }

func (f *BytesFile) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(f.data)), nil
}
