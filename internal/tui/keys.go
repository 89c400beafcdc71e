// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	quit   key.Binding
	cancel key.Binding
	copy   key.Binding
}

var keys = keyMap{
	quit:   key.NewBinding(key.WithKeys("q", "ctrl+c")),
	cancel: key.NewBinding(key.WithKeys("x")),
	copy:   key.NewBinding(key.WithKeys("c")),
}
