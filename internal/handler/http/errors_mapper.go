// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/cropguard/internal/devserver"
	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/utils"
	"github.com/MKhiriev/cropguard/internal/validators"
)

var errorStatusMap = map[error]int{
	devserver.ErrInvalidDataProvided: http.StatusBadRequest,
	devserver.ErrInvalidKey:          http.StatusBadRequest,
	devserver.ErrAlreadyExists:       http.StatusConflict,
	devserver.ErrWrongCredentials:    http.StatusUnauthorized,
	devserver.ErrTokenInvalid:        http.StatusUnauthorized,
	devserver.ErrBadSignature:        http.StatusForbidden,
	devserver.ErrNotFound:            http.StatusNotFound,
	devserver.ErrPresignDisabled:     http.StatusNotImplemented,

	errInvalidJSON:   http.StatusBadRequest,
	errInvalidID:     http.StatusBadRequest,
	errQuotaExceeded: http.StatusRequestEntityTooLarge,

	validators.ErrUnsupportedType:     http.StatusBadRequest,
	validators.ErrEmptyFileKey:        http.StatusBadRequest,
	validators.ErrEmptyBlobName:       http.StatusBadRequest,
	validators.ErrInvalidContentType:  http.StatusBadRequest,
	validators.ErrInvalidExpiry:       http.StatusBadRequest,
	validators.ErrUnsupportedProvider: http.StatusBadRequest,
	validators.ErrInvalidLimit:        http.StatusBadRequest,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with {"detail": ...}. Internal errors are
// not echoed to the caller.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	log := logger.FromRequest(r)

	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
		utils.WriteError(w, http.StatusText(status), status)
		return
	}

	log.Debug().Err(err).Int("status", status).Msg("request rejected")
	utils.WriteError(w, err.Error(), status)
}
