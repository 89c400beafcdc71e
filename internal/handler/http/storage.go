// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"math"
	"net/http"
	"time"

	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/models"
)

const (
	defaultURLExpiry = time.Hour
	maxURLExpiry     = 7 * 24 * time.Hour
	defaultListLimit = 100
)

func urlExpiry(seconds int) time.Duration {
	if seconds <= 0 {
		return defaultURLExpiry
	}
	return min(time.Duration(seconds)*time.Second, maxURLExpiry)
}

// decodeStorage decodes the body into v and validates it.
func (h *Handler) decodeStorage(w http.ResponseWriter, r *http.Request, v any) error {
	if err := decodeJSON(w, r, v); err != nil {
		return err
	}
	return h.validator.Validate(r.Context(), v)
}

func (h *Handler) generateS3URL(w http.ResponseWriter, r *http.Request) {
	var req models.S3SignRequest
	if err := h.decodeStorage(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	key, err := devserver.CleanKey(req.FileKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var signed string
	if h.backend.S3 != nil {
		signed, err = h.backend.S3.PresignPut(r.Context(), key, req.ContentType, urlExpiry(req.ExpiresIn))
	} else {
		signed, err = h.backend.Blobs.SignURL(http.MethodPut, key, urlExpiry(req.ExpiresIn))
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	logger.FromRequest(r).Debug().Str("key", key).Str("user_id", userID).Msg("upload url signed")
	utils.WriteJSON(w, models.S3SignResponse{SignedURL: signed}, http.StatusOK)
}

func (h *Handler) generateAzureSAS(w http.ResponseWriter, r *http.Request) {
	var req models.AzureSignRequest
	if err := h.decodeStorage(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	signed, err := h.backend.Blobs.SignURL(http.MethodPut, req.BlobName, urlExpiry(req.ExpiresIn))
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.AzureSignResponse{SASURL: signed}, http.StatusOK)
}

func (h *Handler) deleteFile(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteFileRequest
	if err := h.decodeStorage(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.backend.Blobs.Delete(req.FileKey); err != nil {
		writeError(w, r, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	logger.FromRequest(r).Info().Str("key", req.FileKey).Str("user_id", userID).Msg("object deleted")
	utils.WriteJSON(w, map[string]string{"message": "File deleted successfully", "fileKey": req.FileKey}, http.StatusOK)
}

func (h *Handler) listFiles(w http.ResponseWriter, r *http.Request) {
	var req models.ListFilesRequest
	if err := h.decodeStorage(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}

	items, next, total := h.backend.Blobs.List(req.Directory, req.Limit, req.ContinuationToken)

	list := models.FileList{
		Files:             make([]models.RemoteFile, 0, len(items)),
		ContinuationToken: next,
		TotalCount:        total,
	}
	for _, it := range items {
		list.Files = append(list.Files, models.RemoteFile{
			Key:          it.Key,
			Size:         it.Size,
			LastModified: it.ModTime.Format(time.RFC3339),
			ContentType:  it.ContentType,
			URL:          h.backend.Blobs.URL(it.Key),
		})
	}

	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) fileMetadata(w http.ResponseWriter, r *http.Request) {
	var req models.FileMetadataRequest
	if err := h.decodeStorage(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	info, err := h.backend.Blobs.Stat(req.FileKey)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, models.FileMetadata{
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.ModTime.Format(time.RFC3339),
		ETag:         info.ETag,
		Metadata:     info.Metadata,
	}, http.StatusOK)
}

func (h *Handler) storageUsage(w http.ResponseWriter, _ *http.Request) {
	used := h.backend.Blobs.Usage()
	usage := models.StorageUsage{Used: used, Limit: h.backend.StorageLimit}
	if usage.Limit > 0 {
		usage.Percentage = math.Round(float64(used)/float64(usage.Limit)*10000) / 100
	}
	utils.WriteJSON(w, usage, http.StatusOK)
}
