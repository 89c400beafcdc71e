// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http is the HTTP transport of the development backend.
//
// It mirrors the REST surface the CropGuard client talks to: JWT
// authentication under /api/auth/, the storage endpoints under
// /api/storage/, the crop resources (farms, detections, weather, alerts,
// market prices and recommendations) and a /blobs/ tree that accepts
// signed PUT uploads. Request tracing, access logging and gzip are
// handled here before requests reach [devserver.Backend].
package http
