// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package devserver

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrAlreadyExists       = errors.New("already exists")
	ErrWrongCredentials    = errors.New("no active account found with the given credentials")
	ErrTokenInvalid        = errors.New("token is invalid or expired")
	ErrNotFound            = errors.New("not found")
	ErrInvalidKey          = errors.New("invalid object key")
	ErrBadSignature        = errors.New("signature is invalid or expired")
	ErrPresignDisabled     = errors.New("s3 presigning is not configured")
)
