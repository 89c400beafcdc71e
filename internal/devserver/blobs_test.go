// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBlobs(t *testing.T) *BlobStore {
	t.Helper()
	b, err := NewBlobStore(t.TempDir(), "http://localhost:8000/blobs/", "blob-key")
	require.NoError(t, err)
	return b
}

func TestCleanKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "uploads/a.jpg", want: "uploads/a.jpg"},
		{in: "/uploads//a.jpg/", want: "uploads/a.jpg"},
		{in: "uploads/../a.jpg", want: "a.jpg"},
		{in: "../etc/passwd", wantErr: true},
		{in: "..", wantErr: true},
		{in: "  ", wantErr: true},
		{in: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanKey(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSignURL_Verify(t *testing.T) {
	b := newTestBlobs(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	signed, err := b.SignURL(http.MethodPut, "uploads/leaf 1.jpg", time.Hour)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(signed, "http://localhost:8000/blobs/uploads/leaf%201.jpg?"))

	u, err := url.Parse(signed)
	require.NoError(t, err)
	expires, sig := u.Query().Get("expires"), u.Query().Get("signature")

	assert.NoError(t, b.Verify(http.MethodPut, "uploads/leaf 1.jpg", expires, sig))
	assert.ErrorIs(t, b.Verify(http.MethodGet, "uploads/leaf 1.jpg", expires, sig), ErrBadSignature)
	assert.ErrorIs(t, b.Verify(http.MethodPut, "uploads/other.jpg", expires, sig), ErrBadSignature)
	assert.ErrorIs(t, b.Verify(http.MethodPut, "uploads/leaf 1.jpg", "not-a-number", sig), ErrBadSignature)

	now = now.Add(2 * time.Hour)
	assert.ErrorIs(t, b.Verify(http.MethodPut, "uploads/leaf 1.jpg", expires, sig), ErrBadSignature)
}

func TestBlobStore_PutOpenDelete(t *testing.T) {
	b := newTestBlobs(t)

	info, err := b.Put("uploads/a.jpg", bytes.NewReader([]byte("leaf")), "image/jpeg", map[string]string{"filename": "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
	sum := md5.Sum([]byte("leaf"))
	assert.Equal(t, `"`+hex.EncodeToString(sum[:])+`"`, info.ETag)

	f, got, err := b.Open("uploads/a.jpg")
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, "leaf", string(data))
	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, "a.jpg", got.Metadata["filename"])
	assert.Equal(t, int64(4), b.Usage())

	require.NoError(t, b.Delete("uploads/a.jpg"))
	_, err = b.Stat("uploads/a.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, b.Delete("uploads/a.jpg"), ErrNotFound)
	assert.Zero(t, b.Usage())
}

func TestBlobStore_ReindexOnStart(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uploads", "b.png"), []byte("png!"), 0o600))

	b, err := NewBlobStore(dir, "http://localhost/blobs", "k")
	require.NoError(t, err)

	info, err := b.Stat("uploads/b.png")
	require.NoError(t, err)
	assert.Equal(t, int64(4), info.Size)
	assert.Equal(t, "image/png", info.ContentType)
}

func TestBlobStore_List(t *testing.T) {
	b := newTestBlobs(t)
	for _, k := range []string{"uploads/c.jpg", "uploads/a.jpg", "uploads/b.jpg", "other/x.jpg"} {
		_, err := b.Put(k, strings.NewReader(k), "", nil)
		require.NoError(t, err)
	}

	page, next, total := b.List("uploads", 2, "")
	require.Len(t, page, 2)
	assert.Equal(t, "uploads/a.jpg", page[0].Key)
	assert.Equal(t, "uploads/b.jpg", next)
	assert.Equal(t, 3, total)

	page, next, _ = b.List("uploads/", 2, next)
	require.Len(t, page, 1)
	assert.Equal(t, "uploads/c.jpg", page[0].Key)
	assert.Empty(t, next)

	all, _, total := b.List("", 0, "")
	assert.Len(t, all, 4)
	assert.Equal(t, 4, total)
}
