// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request payloads before they reach the
// development backend.
//
// A [Validator] accepts any supported value and an optional list of field
// names. With no fields every rule for the type runs; with fields only the
// named rules run, in order, and the first failure is returned.
package validators

import "context"

// Validator validates an input value, optionally restricted to the named
// fields.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
