// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyFileKey        = errors.New("fileKey is required")
	ErrEmptyBlobName       = errors.New("blobName is required")
	ErrInvalidContentType  = errors.New("invalid content type")
	ErrInvalidExpiry       = errors.New("expiresIn must not be negative")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrInvalidLimit        = errors.New("limit must not be negative")
)
