// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "fmt"

// Provider identifies a blob-store backend.
type Provider string

const (
	ProviderAWS   Provider = "aws"
	ProviderAzure Provider = "azure"
)

// Valid reports whether p is one of the supported backends.
func (p Provider) Valid() bool {
	return p == ProviderAWS || p == ProviderAzure
}

// ParseProvider converts a configuration string into a [Provider].
func ParseProvider(s string) (Provider, error) {
	p := Provider(s)
	if !p.Valid() {
		return "", fmt.Errorf("unsupported storage provider %q", s)
	}
	return p, nil
}

// S3SignRequest is the body of POST /storage/generate-s3-url.
type S3SignRequest struct {
	FileKey     string `json:"fileKey"`
	ContentType string `json:"contentType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// S3SignResponse is returned by POST /storage/generate-s3-url.
type S3SignResponse struct {
	SignedURL string `json:"signedUrl"`
}

// AzureSignRequest is the body of POST /storage/generate-azure-sas.
type AzureSignRequest struct {
	BlobName    string `json:"blobName"`
	ContentType string `json:"contentType"`
	ExpiresIn   int    `json:"expiresIn"`
}

// AzureSignResponse is returned by POST /storage/generate-azure-sas.
type AzureSignResponse struct {
	SASURL string `json:"sasUrl"`
}

// DeleteFileRequest is the body of DELETE /storage/delete-file.
type DeleteFileRequest struct {
	FileKey  string   `json:"fileKey"`
	Provider Provider `json:"provider"`
}

// ListFilesRequest is the body of POST /storage/list-files.
type ListFilesRequest struct {
	Directory         string   `json:"directory"`
	Provider          Provider `json:"provider"`
	Limit             int      `json:"limit"`
	ContinuationToken string   `json:"continuationToken,omitempty"`
}

// RemoteFile describes one object returned by the list endpoint.
type RemoteFile struct {
	Key          string `json:"key"`
	Size         int64  `json:"size"`
	LastModified string `json:"lastModified,omitempty"`
	ContentType  string `json:"contentType,omitempty"`
	URL          string `json:"url,omitempty"`
}

// FileList is a page of remote objects.
type FileList struct {
	Files             []RemoteFile `json:"files"`
	ContinuationToken string       `json:"continuationToken,omitempty"`
	TotalCount        int          `json:"totalCount"`
}

// StorageUsage is returned by GET /storage/usage.
type StorageUsage struct {
	Used       int64   `json:"used"`
	Limit      int64   `json:"limit"`
	Percentage float64 `json:"percentage"`
}

// FileMetadataRequest is the body of POST /storage/file-metadata.
type FileMetadataRequest struct {
	FileKey  string   `json:"fileKey"`
	Provider Provider `json:"provider"`
}

// FileMetadata describes one stored object.
type FileMetadata struct {
	Key          string            `json:"key"`
	Size         int64             `json:"size"`
	ContentType  string            `json:"contentType,omitempty"`
	LastModified string            `json:"lastModified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}
