// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"github.com/MKhiriev/cropguard/models"
)

type uploadEventMsg struct {
	evt models.UploadEvent
}

type uploadDoneMsg struct {
	result models.UploadResult
	err    error
}

type copiedMsg struct {
	err error
}
