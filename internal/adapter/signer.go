// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/cropguard/models"
)

const (
	s3SignEndpoint    = "/storage/generate-s3-url"
	azureSignEndpoint = "/storage/generate-azure-sas"
)

type httpURLSigner struct {
	session SessionTokenManager
}

// NewURLSigner returns a [URLSigner] that asks the backend signing endpoints
// for upload URLs. Calls go through session, so they are authenticated and
// survive an access-token refresh.
func NewURLSigner(session SessionTokenManager) URLSigner {
	return &httpURLSigner{session: session}
}

func (s *httpURLSigner) SignUpload(ctx context.Context, provider models.Provider, key, contentType string, expiry time.Duration) (string, error) {
	expiresIn := int(expiry / time.Second)

	switch provider {
	case models.ProviderAWS:
		res, err := s.session.Request(ctx, s3SignEndpoint, http.MethodPost, models.S3SignRequest{
			FileKey:     key,
			ContentType: contentType,
			ExpiresIn:   expiresIn,
		}, true)
		if err != nil {
			return "", fmt.Errorf("sign s3 upload: %w", err)
		}
		var out models.S3SignResponse
		if err = res.Decode(&out); err != nil {
			return "", fmt.Errorf("sign s3 upload: %w", err)
		}
		if out.SignedURL == "" {
			return "", errors.New("sign s3 upload: empty signed url")
		}
		return out.SignedURL, nil

	case models.ProviderAzure:
		res, err := s.session.Request(ctx, azureSignEndpoint, http.MethodPost, models.AzureSignRequest{
			BlobName:    key,
			ContentType: contentType,
			ExpiresIn:   expiresIn,
		}, true)
		if err != nil {
			return "", fmt.Errorf("sign azure upload: %w", err)
		}
		var out models.AzureSignResponse
		if err = res.Decode(&out); err != nil {
			return "", fmt.Errorf("sign azure upload: %w", err)
		}
		if out.SASURL == "" {
			return "", errors.New("sign azure upload: empty sas url")
		}
		return out.SASURL, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}
