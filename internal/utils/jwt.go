// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/cropguard/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrWrongTokenType is returned when a token of one type is presented where
// the other is expected.
var ErrWrongTokenType = errors.New("wrong token type")

// GenerateJWTToken creates a signed HMAC-SHA256 JWT token with the given parameters.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID
//   - ID        (jti): a fresh UUID so that two tokens issued in the same
//     second still differ
//   - IssuedAt  (iat) and ExpiresAt (exp)
//   - token_type: access or refresh
//
// All parameters are required. Returns an error if any of them are empty or zero.
//
// Example usage:
//
//	token, err := utils.GenerateJWTToken("cropguard", "42", models.TokenTypeAccess, time.Hour, "secret")
func GenerateJWTToken(issuer, userID string, tokenType models.TokenType, tokenDuration time.Duration, signKey string) (models.Token, error) {
	if issuer == "" || userID == "" || tokenType == "" || tokenDuration == 0 || signKey == "" {
		return models.Token{}, errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := models.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		TokenType: tokenType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ValidateAndParseJWTToken validates the given JWT token string and extracts its claims.
//
// Validation includes signature verification, the issuer, expiry, a non-empty
// subject and the expected token type.
func ValidateAndParseJWTToken(tokenString, tokenSignKey, tokenIssuer string, want models.TokenType) (models.Token, error) {
	claims := models.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Token{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	if claims.Subject == "" {
		return models.Token{}, errors.New("empty subject error")
	}
	if claims.TokenType != want {
		return models.Token{}, fmt.Errorf("%w: got %q, want %q", ErrWrongTokenType, claims.TokenType, want)
	}

	return models.Token{Token: token, Claims: claims, SignedString: tokenString}, nil
}

// ParseUnverifiedClaims decodes the subject and expiry of a JWT without
// checking its signature. The result is informational only. Subjects that are
// JSON numbers are rendered in decimal.
func ParseUnverifiedClaims(tokenString string) (userID string, expiresAt time.Time, err error) {
	claims := jwt.MapClaims{}
	if _, _, err = jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return "", time.Time{}, err
	}

	if sub, subErr := claims.GetSubject(); subErr == nil && sub != "" {
		userID = sub
	} else if raw, ok := claims["user_id"]; ok {
		userID = fmt.Sprint(raw)
	}

	if exp, expErr := claims.GetExpirationTime(); expErr == nil && exp != nil {
		expiresAt = exp.Time
	}

	return userID, expiresAt, nil
}
