// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/cropguard/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── context ─────────────────────────────────────────────────────────────────

func TestUserIDContext(t *testing.T) {
	_, ok := GetUserIDFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUserID(context.Background(), "u-42")
	got, ok := GetUserIDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-42", got)

	_, ok = GetUserIDFromContext(WithUserID(context.Background(), ""))
	assert.False(t, ok, "empty id is not a user")

	assert.Equal(t, "userID", UserIDCtxKey.String())
}

// ── hash ────────────────────────────────────────────────────────────────────

func TestHashString_Verify(t *testing.T) {
	sig := HashString("PUT\nuploads/a.jpg\n1700000000", "key")

	assert.Len(t, sig, 64)
	assert.True(t, VerifyHashString("PUT\nuploads/a.jpg\n1700000000", "key", sig))
	assert.False(t, VerifyHashString("PUT\nuploads/b.jpg\n1700000000", "key", sig))
	assert.False(t, VerifyHashString("PUT\nuploads/a.jpg\n1700000000", "other", sig))
	assert.False(t, VerifyHashString("x", "key", "not-hex"))
}

// ── jwt ─────────────────────────────────────────────────────────────────────

func TestGenerateAndValidateJWTToken(t *testing.T) {
	token, err := GenerateJWTToken("issuer", "user-1", models.TokenTypeAccess, time.Minute, "sign")
	require.NoError(t, err)
	require.NotEmpty(t, token.String())

	parsed, err := ValidateAndParseJWTToken(token.String(), "sign", "issuer", models.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.UserID())
	assert.Equal(t, models.TokenTypeAccess, parsed.Claims.TokenType)
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	_, err := GenerateJWTToken("", "user-1", models.TokenTypeAccess, time.Minute, "sign")
	assert.Error(t, err)
	_, err = GenerateJWTToken("issuer", "", models.TokenTypeAccess, time.Minute, "sign")
	assert.Error(t, err)
	_, err = GenerateJWTToken("issuer", "user-1", models.TokenTypeAccess, 0, "sign")
	assert.Error(t, err)
}

func TestGenerateJWTToken_UniquePerCall(t *testing.T) {
	a, err := GenerateJWTToken("issuer", "user-1", models.TokenTypeAccess, time.Minute, "sign")
	require.NoError(t, err)
	b, err := GenerateJWTToken("issuer", "user-1", models.TokenTypeAccess, time.Minute, "sign")
	require.NoError(t, err)
	assert.NotEqual(t, a.String(), b.String())
}

func TestValidateAndParseJWTToken_Rejects(t *testing.T) {
	refresh, err := GenerateJWTToken("issuer", "user-1", models.TokenTypeRefresh, time.Minute, "sign")
	require.NoError(t, err)
	expired, err := GenerateJWTToken("issuer", "user-1", models.TokenTypeAccess, -time.Minute, "sign")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		key    string
		issuer string
	}{
		{name: "wrong type", token: refresh.String(), key: "sign", issuer: "issuer"},
		{name: "wrong key", token: refresh.String(), key: "other", issuer: "issuer"},
		{name: "wrong issuer", token: refresh.String(), key: "sign", issuer: "other"},
		{name: "expired", token: expired.String(), key: "sign", issuer: "issuer"},
		{name: "malformed", token: "not.a.jwt", key: "sign", issuer: "issuer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAndParseJWTToken(tt.token, tt.key, tt.issuer, models.TokenTypeAccess)
			assert.Error(t, err)
		})
	}
}

func TestParseUnverifiedClaims(t *testing.T) {
	token, err := GenerateJWTToken("issuer", "user-7", models.TokenTypeAccess, time.Hour, "sign")
	require.NoError(t, err)

	userID, exp, err := ParseUnverifiedClaims(token.String())
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	_, _, err = ParseUnverifiedClaims("opaque-token")
	assert.Error(t, err)
}

// ── http client / uuid ──────────────────────────────────────────────────────

func TestNewAPIClient(t *testing.T) {
	c := NewAPIClient("http://localhost:8000/api", 3*time.Second)
	require.NotNil(t, c.Client)
	assert.Equal(t, "http://localhost:8000/api", c.BaseURL)
	assert.Equal(t, "application/json", c.Header.Get("Accept"))
	assert.NotSame(t, c.Client, NewHTTPClient().Client)
}

func TestUUIDGenerator(t *testing.T) {
	g := NewUUIDGenerator()
	id := g.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, g.Generate())
}
