// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/cropguard/internal/utils"
)

func executeAuth(h *Handler, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/farms/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)
	return rr
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "valid Bearer token", header: "Bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "scheme is case-insensitive", header: "bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "surrounding spaces in token", header: "Bearer   my-jwt-token ", wantToken: "my-jwt-token"},
		{name: "missing token part", header: "Bearer", wantErr: ErrInvalidAuthorizationHeader},
		{name: "empty token", header: "Bearer ", wantErr: ErrEmptyToken},
		{name: "other scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{name: "leading space", header: " Bearer my-jwt-token", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth middleware ----

func TestAuth_ValidToken(t *testing.T) {
	h := newTestHandler(t)
	tokens := loginTestUser(t, h)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rr := executeAuth(h, "Bearer "+tokens.Access, next)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "1", gotUserID)
}

func TestAuth_Rejects(t *testing.T) {
	h := newTestHandler(t)
	tokens := loginTestUser(t, h)

	tests := []struct {
		name       string
		header     string
		wantDetail string
	}{
		{name: "no header", header: "", wantDetail: ErrEmptyAuthorizationHeader.Error()},
		{name: "malformed header", header: "Token abc", wantDetail: ErrInvalidAuthorizationHeader.Error()},
		{name: "garbage token", header: "Bearer not-a-jwt", wantDetail: "Given token not valid for any token type"},
		{name: "refresh token", header: "Bearer " + tokens.Refresh, wantDetail: "Given token not valid for any token type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

			rr := executeAuth(h, tt.header, next)

			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tt.wantDetail, detail(t, rr))
		})
	}
}
