// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/utils"
)

const amzMetaPrefix = "X-Amz-Meta-"

func blobKey(r *http.Request) string {
	return strings.TrimPrefix(r.URL.Path, "/blobs/")
}

func (h *Handler) putBlob(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)
	key := blobKey(r)

	if limit := h.backend.StorageLimit; limit > 0 && r.ContentLength > 0 && h.backend.Blobs.Usage()+r.ContentLength > limit {
		writeError(w, r, fmt.Errorf("%w: %d bytes requested", errQuotaExceeded, r.ContentLength))
		return
	}

	metadata := make(map[string]string)
	for name, values := range r.Header {
		if strings.HasPrefix(name, amzMetaPrefix) && len(values) > 0 {
			metadata[strings.ToLower(strings.TrimPrefix(name, amzMetaPrefix))] = values[0]
		}
	}

	info, err := h.backend.Blobs.Put(key, r.Body, r.Header.Get("Content-Type"), metadata)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Str("key", info.Key).Int64("size", info.Size).Msg("object stored")
	w.Header().Set("ETag", info.ETag)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) getBlob(w http.ResponseWriter, r *http.Request) {
	f, info, err := h.backend.Blobs.Open(blobKey(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer f.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.ETag != "" {
		w.Header().Set("ETag", info.ETag)
	}
	http.ServeContent(w, r, path.Base(info.Key), info.ModTime, f)
}

// withBlobSignature admits only requests carrying a valid signature issued
// by [devserver.BlobStore.SignURL] for the same method and key.
func (h *Handler) withBlobSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key, err := devserver.CleanKey(blobKey(r))
		if err != nil {
			writeError(w, r, err)
			return
		}

		q := r.URL.Query()
		if err = h.backend.Blobs.Verify(r.Method, key, q.Get("expires"), q.Get("signature")); err != nil {
			logger.FromRequest(r).Warn().Err(err).Str("key", key).Msg("blob signature rejected")
			utils.WriteError(w, "SignatureDoesNotMatch", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}
