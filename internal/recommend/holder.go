// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package recommend

import (
	"sync/atomic"
	"time"
)

// Loaded is a model together with its persisted version.
type Loaded struct {
	Model    *Model
	Version  int
	LoadedAt time.Time
}

// Holder is the current-model cell shared by request handlers and the
// trainer. Readers never observe a partially built model.
type Holder struct {
	current atomic.Pointer[Loaded]
}

// NewHolder returns an empty Holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Model returns the current model, or nil when none is loaded.
func (h *Holder) Model() *Model {
	if l := h.current.Load(); l != nil {
		return l.Model
	}
	return nil
}

// Current returns the current model with its version, or nil.
func (h *Holder) Current() *Loaded {
	return h.current.Load()
}

// Version returns the loaded model version, 0 when empty.
func (h *Holder) Version() int {
	if l := h.current.Load(); l != nil {
		return l.Version
	}
	return 0
}

// Swap installs m as the current model and returns the previous one.
func (h *Holder) Swap(m *Model, version int) *Loaded {
	return h.current.Swap(&Loaded{Model: m, Version: version, LoadedAt: time.Now().UTC()})
}
