// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client assembles the CropGuard client: local storage, the session
// manager, the upload manager and crop service, the terminal UI and the
// connectivity monitor. Nothing is held in package-level state.
package client
