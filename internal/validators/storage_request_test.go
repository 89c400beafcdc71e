// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/cropguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorageRequestValidator(t *testing.T) {
	require.NotNil(t, NewStorageRequestValidator())
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewStorageRequestValidator()
	ctx := context.Background()

	tests := []struct {
		name    string
		obj     any
		wantErr error
	}{
		{name: "s3 value", obj: models.S3SignRequest{FileKey: "uploads/a.jpg", ContentType: "image/jpeg"}},
		{name: "s3 pointer", obj: &models.S3SignRequest{FileKey: "uploads/a.jpg"}},
		{name: "azure value", obj: models.AzureSignRequest{BlobName: "uploads/a.jpg", ExpiresIn: 60}},
		{name: "azure pointer", obj: &models.AzureSignRequest{BlobName: "uploads/a.jpg"}},
		{name: "delete value", obj: models.DeleteFileRequest{FileKey: "uploads/a.jpg", Provider: models.ProviderAWS}},
		{name: "delete pointer", obj: &models.DeleteFileRequest{FileKey: "uploads/a.jpg"}},
		{name: "metadata value", obj: models.FileMetadataRequest{FileKey: "uploads/a.jpg", Provider: models.ProviderAzure}},
		{name: "metadata pointer", obj: &models.FileMetadataRequest{FileKey: "uploads/a.jpg"}},
		{name: "list value", obj: models.ListFilesRequest{Directory: "uploads", Limit: 10}},
		{name: "list pointer", obj: &models.ListFilesRequest{}},
		{name: "unsupported", obj: "uploads/a.jpg", wantErr: ErrUnsupportedType},
		{name: "nil", obj: nil, wantErr: ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(ctx, tt.obj)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_S3Sign(t *testing.T) {
	v := NewStorageRequestValidator()

	tests := []struct {
		name    string
		req     models.S3SignRequest
		fields  []string
		wantErr error
	}{
		{name: "blank key", req: models.S3SignRequest{FileKey: "  "}, wantErr: ErrEmptyFileKey},
		{name: "bad content type", req: models.S3SignRequest{FileKey: "a", ContentType: "image/"}, wantErr: ErrInvalidContentType},
		{name: "content type with params", req: models.S3SignRequest{FileKey: "a", ContentType: "text/plain; charset=utf-8"}},
		{name: "negative expiry", req: models.S3SignRequest{FileKey: "a", ExpiresIn: -1}, wantErr: ErrInvalidExpiry},
		{name: "scoped to expiry skips key", req: models.S3SignRequest{ExpiresIn: 30}, fields: []string{FieldExpiresIn}},
		{name: "unknown field", req: models.S3SignRequest{FileKey: "a"}, fields: []string{FieldLimit}, wantErr: ErrUnknownField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req, tt.fields...)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidate_AzureSign(t *testing.T) {
	v := NewStorageRequestValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.AzureSignRequest{}), ErrEmptyBlobName)
	assert.ErrorIs(t, v.Validate(ctx, models.AzureSignRequest{BlobName: "a", ContentType: "nonsense"}), ErrInvalidContentType)
	assert.ErrorIs(t, v.Validate(ctx, models.AzureSignRequest{BlobName: "a", ExpiresIn: -5}), ErrInvalidExpiry)
	assert.ErrorIs(t, v.Validate(ctx, models.AzureSignRequest{BlobName: "a"}, FieldFileKey), ErrUnknownField)
}

func TestValidate_KeyedRequests(t *testing.T) {
	v := NewStorageRequestValidator()
	ctx := context.Background()

	// одинаковые правила для удаления и метаданных
	for _, obj := range []any{
		models.DeleteFileRequest{Provider: models.ProviderAWS},
		models.FileMetadataRequest{Provider: models.ProviderAWS},
	} {
		assert.ErrorIs(t, v.Validate(ctx, obj), ErrEmptyFileKey)
	}

	err := v.Validate(ctx, models.DeleteFileRequest{FileKey: "a", Provider: "gcs"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
	assert.Contains(t, err.Error(), `"gcs"`)

	assert.NoError(t, v.Validate(ctx, models.FileMetadataRequest{Provider: models.ProviderAWS}, FieldProvider))
	assert.ErrorIs(t, v.Validate(ctx, models.FileMetadataRequest{FileKey: "a"}, FieldContentType), ErrUnknownField)
}

func TestValidate_ListFiles(t *testing.T) {
	v := NewStorageRequestValidator()
	ctx := context.Background()

	assert.ErrorIs(t, v.Validate(ctx, models.ListFilesRequest{Limit: -1}), ErrInvalidLimit)
	assert.ErrorIs(t, v.Validate(ctx, models.ListFilesRequest{Provider: "minio"}), ErrUnsupportedProvider)
	assert.ErrorIs(t, v.Validate(ctx, models.ListFilesRequest{}, FieldFileKey), ErrUnknownField)
	assert.NoError(t, v.Validate(ctx, models.ListFilesRequest{Limit: 0, Provider: models.ProviderAzure}))
}
