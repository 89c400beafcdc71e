// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/cropguard/internal/logger"
	"github.com/MKhiriev/cropguard/internal/utils"
)

// CheckHTTPMethod returns a handler intended for [chi.Mux.MethodNotAllowed].
//
// chi invokes it only when the path is registered but not for the requested
// method. Such requests answer 404 with a {"detail"} body instead of chi's
// bare 405, so callers cannot probe which methods a route supports.
//
// The request is never dispatched back to the router: for a mounted
// sub-router the mount pattern accepts every method, so a second pass would
// land here again.
func CheckHTTPMethod() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.FromRequest(r).Debug().
			Str("func", "CheckHTTPMethod").
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("method not allowed, answering not found")
		utils.WriteError(w, "Not found.", http.StatusNotFound)
	}
}
