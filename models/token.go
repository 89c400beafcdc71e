// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenClaims is the claim set carried by every token the backend issues.
// The subject holds the user identifier.
type TokenClaims struct {
	jwt.RegisteredClaims

	// TokenType prevents a refresh token from being accepted as an access
	// token and vice versa.
	TokenType TokenType `json:"token_type"`
}

// Token pairs a parsed JWT with its compact serialized form.
type Token struct {
	// Token is the underlying JWT token used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// Claims is the decoded claim set.
	Claims TokenClaims `json:"-"`

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`
}

// UserID returns the subject claim.
func (t Token) UserID() string {
	return t.Claims.Subject
}

// String returns the compact JWS serialization of the token.
func (t Token) String() string {
	return t.SignedString
}
