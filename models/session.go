// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session is a read-only snapshot of the client's authentication state.
//
// AccessToken and RefreshToken are opaque bearer credentials issued by the
// backend. UserID and ExpiresAt are decoded from the access token claims
// without signature verification and are informational only: the server is
// always the authority on whether a token is still valid.
type Session struct {
	AccessToken     string    `json:"access_token,omitempty"`
	RefreshToken    string    `json:"refresh_token,omitempty"`
	RefreshInFlight bool      `json:"refresh_in_flight"`
	UserID          string    `json:"user_id,omitempty"`
	ExpiresAt       time.Time `json:"expires_at,omitzero"`
}

// Authenticated reports whether the snapshot carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// LoginRequest is the body of POST /auth/token/.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by POST /auth/token/.
type LoginResponse struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh"`
	User    *UserSummary `json:"user,omitempty"`
}

// UserSummary is the user block embedded in the login response.
type UserSummary struct {
	ID       any    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// RefreshRequest is the body of POST /auth/token/refresh/.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// RefreshResponse is returned by POST /auth/token/refresh/. Only the access
// token is rotated.
type RefreshResponse struct {
	Access string `json:"access"`
}

// RegisterRequest is the body of POST /auth/register/.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// RegisterResponse is returned by POST /auth/register/.
type RegisterResponse struct {
	Message  string `json:"message"`
	UserID   any    `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
