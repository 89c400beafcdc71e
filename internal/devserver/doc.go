// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package devserver holds the state of the development backend: accounts
// and issued tokens, the on-disk blob store with HMAC-signed upload URLs,
// optional S3 presigning, and in-memory collections for the advisory
// resources. The HTTP surface lives in internal/handler/http.
package devserver
