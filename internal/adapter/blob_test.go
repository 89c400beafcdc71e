// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/cropguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── BlobTransport ────────────────────────────────────────────────────────────

func TestBlobPut_SendsLengthHeadersAndReportsProgress(t *testing.T) {
	payload := bytes.Repeat([]byte("leaf"), 64*1024)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, int64(len(payload)), r.ContentLength)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "AES256", r.Header.Get("x-amz-server-side-encryption"))

		got, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var (
		mu   sync.Mutex
		seen []int64
	)
	err := NewBlobTransport().Put(context.Background(), srv.URL+"/uploads/1-leaf.jpg", bytes.NewReader(payload), int64(len(payload)),
		map[string]string{"Content-Type": "image/jpeg", "x-amz-server-side-encryption": "AES256"},
		func(sent, total int64) {
			mu.Lock()
			seen = append(seen, sent)
			mu.Unlock()
			assert.Equal(t, int64(len(payload)), total)
		})
	require.NoError(t, err)

	require.NotEmpty(t, seen)
	for i := 1; i < len(seen); i++ {
		assert.GreaterOrEqual(t, seen[i], seen[i-1])
	}
	assert.Equal(t, int64(len(payload)), seen[len(seen)-1])
}

func TestBlobPut_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, int64(0), r.ContentLength)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := NewBlobTransport().Put(context.Background(), srv.URL, bytes.NewReader(nil), 0, nil, nil)
	require.NoError(t, err)
}

func TestBlobPut_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<Error><Code>SignatureDoesNotMatch</Code></Error>`))
	}))
	defer srv.Close()

	err := NewBlobTransport().Put(context.Background(), srv.URL, bytes.NewReader([]byte("x")), 1, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.False(t, IsTransient(err))
}

func TestBlobPut_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewBlobTransport().Put(ctx, srv.URL, bytes.NewReader([]byte("x")), 1, nil, nil)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.True(t, IsTransient(err))
}

func TestBlobGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("blob-bytes"))
	}))
	defer srv.Close()

	tr := NewBlobTransport()

	got, err := tr.Get(context.Background(), srv.URL+"/uploads/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "blob-bytes", string(got))

	_, err = tr.Get(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

// ── URLSigner ────────────────────────────────────────────────────────────────

func TestSignUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/storage/generate-s3-url":
			var req models.S3SignRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "uploads/1-a.jpg", req.FileKey)
			assert.Equal(t, 3600, req.ExpiresIn)
			writeJSON(w, http.StatusOK, models.S3SignResponse{SignedURL: "https://s3/signed"})
		case "/storage/generate-azure-sas":
			var req models.AzureSignRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "uploads/1-a.jpg", req.BlobName)
			writeJSON(w, http.StatusOK, models.AzureSignResponse{SASURL: "https://azure/sas"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	m := newTestManager(t, srv.URL, nil)
	withTokens(t, m, "tok", "ref")
	signer := NewURLSigner(m)

	got, err := signer.SignUpload(context.Background(), models.ProviderAWS, "uploads/1-a.jpg", "image/jpeg", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://s3/signed", got)

	got, err = signer.SignUpload(context.Background(), models.ProviderAzure, "uploads/1-a.jpg", "image/jpeg", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "https://azure/sas", got)

	_, err = signer.SignUpload(context.Background(), models.Provider("gcs"), "k", "image/jpeg", time.Hour)
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestSignUpload_EmptyURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	}))
	defer srv.Close()

	signer := NewURLSigner(newTestManager(t, srv.URL, nil))
	_, err := signer.SignUpload(context.Background(), models.ProviderAWS, "k", "image/png", time.Minute)
	require.Error(t, err)
}
