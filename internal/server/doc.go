// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package server runs the development backend's transport servers.
//
// It owns the listener lifecycle: startup, signal handling and graceful
// shutdown of every enabled transport.
package server
