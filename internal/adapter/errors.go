// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"errors"
	"fmt"
	"net/http"
)

// Transport-level sentinel errors. Callers match them with [errors.Is].
var (
	// ErrAuthExpired means the session could not be renewed. The stored
	// tokens have been cleared and the user must log in again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrNetworkFailure means no HTTP response was received.
	ErrNetworkFailure = errors.New("network failure")

	// ErrTimeout means the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrCancelled means the caller cancelled the request.
	ErrCancelled = errors.New("cancelled")

	// ErrUnsupportedProvider is returned for blob providers other than aws
	// and azure.
	ErrUnsupportedProvider = errors.New("unsupported storage provider")

	// ErrInvalidMethod is returned for HTTP methods Request does not send.
	ErrInvalidMethod = errors.New("unsupported http method")
)

// Status-class sentinels wrapped by [APIError] so that callers can test the
// class of a failure without inspecting the code.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Unwrap exposes the status-class sentinel, if any.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return ErrBadRequest
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrServer
	default:
		return nil
	}
}

// IsTransient reports whether err is worth retrying later: a network
// failure or a timeout. Cancellation and HTTP errors are not transient.
func IsTransient(err error) bool {
	if errors.Is(err, ErrCancelled) {
		return false
	}
	return errors.Is(err, ErrNetworkFailure) || errors.Is(err, ErrTimeout)
}
