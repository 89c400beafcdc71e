// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/cropguard/internal/config"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/mock"
	"github.com/MKhiriev/cropguard/internal/store"
	"github.com/MKhiriev/cropguard/models"
)

func testClientConfig(baseURL string) *config.ClientConfig {
	return &config.ClientConfig{
		Adapter: config.ClientAdapter{BaseURL: baseURL, RequestTimeout: time.Second},
		Storage: config.ClientStorage{
			Blob: config.ClientBlob{Provider: models.ProviderAWS, Bucket: "cropguard-uploads", Region: "us-east-1"},
		},
		Upload: config.ClientUpload{
			MaxFileSize:     50 * 1024 * 1024,
			Timeout:         time.Second,
			MaxRetries:      3,
			SignedURLExpiry: time.Hour,
		},
		Workers: config.ClientWorkers{ProbeInterval: 5 * time.Millisecond},
	}
}

func TestNewApp_WiresAndProbes(t *testing.T) {
	var pings atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pings.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctrl := gomock.NewController(t)
	storages := &store.ClientStorages{
		KeyValue: store.NewMemoryKeyValueStore(),
		Uploads:  mock.NewMockUploadRecordRepository(ctrl),
	}

	app, err := newApp(context.Background(), testClientConfig(srv.URL+"/api"), storages, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, app.Session)
	require.NotNil(t, app.Services.Uploads)
	require.NotNil(t, app.Services.Crops)
	require.NotNil(t, app.UI)
	assert.False(t, app.Session.IsAuthenticated())
	assert.True(t, app.Services.Uploads.Online())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunWorkers(ctx) }()

	assert.Eventually(t, func() bool { return pings.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.NoError(t, app.Close())
}

func TestNewApp_InvalidBaseURL(t *testing.T) {
	storages := &store.ClientStorages{KeyValue: store.NewMemoryKeyValueStore()}

	_, err := newApp(context.Background(), testClientConfig(""), storages, logger.Nop())
	assert.ErrorContains(t, err, "create session manager")
}
