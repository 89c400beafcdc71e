// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/cropguard/internal/validators"
	"github.com/MKhiriev/cropguard/models"
)

// putSigned uploads data through a signed URL the way the client does:
// straight to the blob route, without a bearer token.
func putSigned(t *testing.T, router *chi.Mux, signedURL string, data []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	u, err := url.Parse(signedURL)
	require.NoError(t, err)
	require.Equal(t, testPublicURL, u.Scheme+"://"+u.Host)

	req := httptest.NewRequest(http.MethodPut, u.RequestURI(), bytes.NewReader(data))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func signS3(t *testing.T, router *chi.Mux, token, key string) string {
	t.Helper()
	rr := do(t, router, http.MethodPost, "/api/storage/generate-s3-url", models.S3SignRequest{FileKey: key, ContentType: "image/jpeg"}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return decode[models.S3SignResponse](t, rr).SignedURL
}

// ---- urlExpiry ----

func TestURLExpiry(t *testing.T) {
	assert.Equal(t, defaultURLExpiry, urlExpiry(0))
	assert.Equal(t, 90*time.Second, urlExpiry(90))
	assert.Equal(t, maxURLExpiry, urlExpiry(int(30*24*time.Hour/time.Second)))
}

// ---- sign endpoints ----

func TestGenerateS3URL(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	signed := signS3(t, router, token, "/uploads/1700000000000-leaf spot.jpg")

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "/blobs/uploads/1700000000000-leaf spot.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("signature"))

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(defaultURLExpiry).Unix(), expires, 5)
}

func TestGenerateS3URL_Rejects(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	tests := []struct {
		name       string
		body       any
		wantDetail string
	}{
		{name: "empty key", body: models.S3SignRequest{ContentType: "image/jpeg"}, wantDetail: validators.ErrEmptyFileKey.Error()},
		{name: "escaping key", body: models.S3SignRequest{FileKey: "../../etc/passwd"}, wantDetail: "invalid object key"},
		{name: "negative expiry", body: models.S3SignRequest{FileKey: "uploads/a.jpg", ExpiresIn: -1}, wantDetail: validators.ErrInvalidExpiry.Error()},
		{name: "bad content type", body: models.S3SignRequest{FileKey: "uploads/a.jpg", ContentType: "jpeg"}, wantDetail: validators.ErrInvalidContentType.Error()},
		{name: "broken json", body: `{"fileKey":`, wantDetail: errInvalidJSON.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, router, http.MethodPost, "/api/storage/generate-s3-url", tt.body, token)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, detail(t, rr), tt.wantDetail)
		})
	}
}

func TestGenerateAzureSAS(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	rr := do(t, router, http.MethodPost, "/api/storage/generate-azure-sas", models.AzureSignRequest{BlobName: "uploads/a.jpg", ExpiresIn: 60}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	sas := decode[models.AzureSignResponse](t, rr).SASURL
	assert.True(t, strings.HasPrefix(sas, testPublicURL+"/blobs/uploads/a.jpg?"), sas)

	// подписанный URL принимает загрузку
	put := putSigned(t, router, sas, []byte("jpeg"), nil)
	assert.Equal(t, http.StatusOK, put.Code)

	rr = do(t, router, http.MethodPost, "/api/storage/generate-azure-sas", models.AzureSignRequest{}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, validators.ErrEmptyBlobName.Error(), detail(t, rr))
}

// ---- signed blob round trip ----

func TestBlobs_UploadListStatDelete(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	data := []byte("leaf image bytes")

	put := putSigned(t, router, signS3(t, router, token, "uploads/leaf.jpg"), data, map[string]string{
		"Content-Type":          "image/jpeg",
		"X-Amz-Meta-Farm-Id":    "3",
		"X-Amz-Meta-Crop-Stage": "flowering",
	})
	require.Equal(t, http.StatusOK, put.Code, put.Body.String())
	etag := put.Header().Get("ETag")
	require.NotEmpty(t, etag)

	// public read
	rr := do(t, router, http.MethodGet, "/blobs/uploads/leaf.jpg", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, data, rr.Body.Bytes())
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Equal(t, etag, rr.Header().Get("ETag"))

	rr = do(t, router, http.MethodPost, "/api/storage/file-metadata", models.FileMetadataRequest{FileKey: "uploads/leaf.jpg", Provider: models.ProviderAWS}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	meta := decode[models.FileMetadata](t, rr)
	assert.Equal(t, int64(len(data)), meta.Size)
	assert.Equal(t, etag, meta.ETag)
	assert.Equal(t, map[string]string{"farm-id": "3", "crop-stage": "flowering"}, meta.Metadata)

	rr = do(t, router, http.MethodPost, "/api/storage/list-files", models.ListFilesRequest{Directory: "uploads"}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	list := decode[models.FileList](t, rr)
	require.Len(t, list.Files, 1)
	assert.Equal(t, 1, list.TotalCount)
	assert.Empty(t, list.ContinuationToken)
	assert.Equal(t, testPublicURL+"/blobs/uploads/leaf.jpg", list.Files[0].URL)
	_, err := time.Parse(time.RFC3339, list.Files[0].LastModified)
	assert.NoError(t, err)

	rr = do(t, router, http.MethodGet, "/api/storage/usage", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	usage := decode[models.StorageUsage](t, rr)
	assert.Equal(t, int64(len(data)), usage.Used)
	assert.Equal(t, int64(1<<20), usage.Limit)

	rr = do(t, router, http.MethodDelete, "/api/storage/delete-file", models.DeleteFileRequest{FileKey: "uploads/leaf.jpg", Provider: models.ProviderAWS}, token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, map[string]string{"message": "File deleted successfully", "fileKey": "uploads/leaf.jpg"}, decode[map[string]string](t, rr))

	rr = do(t, router, http.MethodGet, "/blobs/uploads/leaf.jpg", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, router, http.MethodDelete, "/api/storage/delete-file", models.DeleteFileRequest{FileKey: "uploads/leaf.jpg"}, token)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBlobs_ListPaging(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access

	for _, key := range []string{"uploads/a.jpg", "uploads/b.jpg", "uploads/c.jpg", "other/d.jpg"} {
		require.Equal(t, http.StatusOK, putSigned(t, router, signS3(t, router, token, key), []byte(key), nil).Code)
	}

	rr := do(t, router, http.MethodPost, "/api/storage/list-files", models.ListFilesRequest{Directory: "uploads", Limit: 2}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decode[models.FileList](t, rr)
	require.Len(t, first.Files, 2)
	assert.Equal(t, 3, first.TotalCount)
	assert.Equal(t, "uploads/b.jpg", first.ContinuationToken)

	rr = do(t, router, http.MethodPost, "/api/storage/list-files", models.ListFilesRequest{Directory: "uploads", Limit: 2, ContinuationToken: first.ContinuationToken}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	second := decode[models.FileList](t, rr)
	require.Len(t, second.Files, 1)
	assert.Equal(t, "uploads/c.jpg", second.Files[0].Key)
	assert.Empty(t, second.ContinuationToken)

	rr = do(t, router, http.MethodPost, "/api/storage/list-files", models.ListFilesRequest{Provider: "gcs"}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestBlobs_SignatureRequired(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	signed := signS3(t, router, token, "uploads/a.jpg")

	tests := []struct {
		name   string
		target func() string
	}{
		{name: "unsigned", target: func() string { return testPublicURL + "/blobs/uploads/a.jpg" }},
		{name: "tampered signature", target: func() string { return strings.Replace(signed, "signature=", "signature=00", 1) }},
		{name: "signature for another key", target: func() string { return strings.Replace(signed, "/uploads/a.jpg", "/uploads/b.jpg", 1) }},
		{
			name: "signature for GET",
			target: func() string {
				u, err := h.backend.Blobs.SignURL(http.MethodGet, "uploads/a.jpg", time.Minute)
				require.NoError(t, err)
				return u
			},
		},
		{
			name: "expired",
			target: func() string {
				u, err := h.backend.Blobs.SignURL(http.MethodPut, "uploads/a.jpg", -time.Minute)
				require.NoError(t, err)
				return u
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := putSigned(t, router, tt.target(), []byte("x"), nil)

			assert.Equal(t, http.StatusForbidden, rr.Code)
			assert.Equal(t, "SignatureDoesNotMatch", detail(t, rr))
		})
	}
}

func TestBlobs_QuotaExceeded(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	h.backend.StorageLimit = 8

	rr := putSigned(t, router, signS3(t, router, token, "uploads/big.jpg"), []byte("0123456789"), nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Contains(t, detail(t, rr), errQuotaExceeded.Error())
	assert.Zero(t, h.backend.Blobs.Usage())
}

func TestStorageUsage_Percentage(t *testing.T) {
	router, h := newTestRouter(t)
	token := loginTestUser(t, h).Access
	h.backend.StorageLimit = 3

	require.Equal(t, http.StatusOK, putSigned(t, router, signS3(t, router, token, "uploads/a.txt"), []byte("a"), nil).Code)

	rr := do(t, router, http.MethodGet, "/api/storage/usage", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.StorageUsage{Used: 1, Limit: 3, Percentage: 33.33}, decode[models.StorageUsage](t, rr))
}
