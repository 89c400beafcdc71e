// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/MKhiriev/cropguard/models"
)

const (
	FieldFileKey     = "file_key"
	FieldBlobName    = "blob_name"
	FieldContentType = "content_type"
	FieldExpiresIn   = "expires_in"
	FieldProvider    = "provider"
	FieldLimit       = "limit"
)

// StorageRequestValidator validates the bodies of the /storage endpoints.
type StorageRequestValidator struct{}

func NewStorageRequestValidator() Validator {
	return &StorageRequestValidator{}
}

func (v *StorageRequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.S3SignRequest:
		return v.validateS3Sign(value, fields...)
	case *models.S3SignRequest:
		return v.validateS3Sign(*value, fields...)

	case models.AzureSignRequest:
		return v.validateAzureSign(value, fields...)
	case *models.AzureSignRequest:
		return v.validateAzureSign(*value, fields...)

	case models.DeleteFileRequest:
		return v.validateKeyed(value.FileKey, value.Provider, fields...)
	case *models.DeleteFileRequest:
		return v.validateKeyed(value.FileKey, value.Provider, fields...)

	case models.FileMetadataRequest:
		return v.validateKeyed(value.FileKey, value.Provider, fields...)
	case *models.FileMetadataRequest:
		return v.validateKeyed(value.FileKey, value.Provider, fields...)

	case models.ListFilesRequest:
		return v.validateListFiles(value, fields...)
	case *models.ListFilesRequest:
		return v.validateListFiles(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *StorageRequestValidator) validateS3Sign(req models.S3SignRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFileKey, FieldContentType, FieldExpiresIn}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldFileKey:
			err = requireNonBlank(req.FileKey, ErrEmptyFileKey)
		case FieldContentType:
			err = checkContentType(req.ContentType)
		case FieldExpiresIn:
			err = checkExpiry(req.ExpiresIn)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *StorageRequestValidator) validateAzureSign(req models.AzureSignRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldBlobName, FieldContentType, FieldExpiresIn}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldBlobName:
			err = requireNonBlank(req.BlobName, ErrEmptyBlobName)
		case FieldContentType:
			err = checkContentType(req.ContentType)
		case FieldExpiresIn:
			err = checkExpiry(req.ExpiresIn)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

// validateKeyed covers the requests that address one object by key.
func (v *StorageRequestValidator) validateKeyed(key string, provider models.Provider, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldFileKey, FieldProvider}
	}

	for _, f := range fields {
		var err error
		switch f {
		case FieldFileKey:
			err = requireNonBlank(key, ErrEmptyFileKey)
		case FieldProvider:
			err = checkProvider(provider)
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return err
		}
	}

	return nil
}

func (v *StorageRequestValidator) validateListFiles(req models.ListFilesRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldProvider, FieldLimit}
	}

	for _, f := range fields {
		switch f {
		case FieldProvider:
			if err := checkProvider(req.Provider); err != nil {
				return err
			}
		case FieldLimit:
			if req.Limit < 0 {
				return ErrInvalidLimit
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func requireNonBlank(s string, err error) error {
	if strings.TrimSpace(s) == "" {
		return err
	}
	return nil
}

// checkContentType accepts an empty value; the backend then stores the
// object without a declared type.
func checkContentType(ct string) error {
	if ct == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil || !strings.Contains(mediaType, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidContentType, ct)
	}
	return nil
}

func checkExpiry(seconds int) error {
	if seconds < 0 {
		return ErrInvalidExpiry
	}
	return nil
}

// checkProvider accepts an empty provider, which means the default backend.
func checkProvider(p models.Provider) error {
	if p != "" && !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, p)
	}
	return nil
}
