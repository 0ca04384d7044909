/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package notify

import (
	"sync"
	"time"
)

// SnackbarMessage is a toast. Zero fields take the snackbar defaults.
type SnackbarMessage struct {
	Text      string
	Color     string
	Location  string
	Multiline bool
	Rounded   string
	Timeout   time.Duration
	Variant   string
}

// SnackbarState is a snapshot of a Snackbar
type SnackbarState struct {
	Show bool
	SnackbarMessage
}

// Snackbar holds the state of the toast area
type Snackbar struct {
	mu    sync.Mutex
	state SnackbarState
}

// NewSnackbar creates a hidden snackbar
func NewSnackbar() *Snackbar {
	s := &Snackbar{}
	s.state.SnackbarMessage = withSnackbarDefaults(SnackbarMessage{})
	return s
}

// Show displays msg
func (s *Snackbar) Show(msg SnackbarMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SnackbarState{Show: true, SnackbarMessage: withSnackbarDefaults(msg)}
}

// Close hides the snackbar and restores its defaults
func (s *Snackbar) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SnackbarState{SnackbarMessage: withSnackbarDefaults(SnackbarMessage{})}
}

// State returns a snapshot of the snackbar
func (s *Snackbar) State() SnackbarState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func withSnackbarDefaults(msg SnackbarMessage) SnackbarMessage {
	if msg.Color == "" {
		msg.Color = "primary"
	}
	if msg.Location == "" {
		msg.Location = "bottom end"
	}
	if msg.Rounded == "" {
		msg.Rounded = "pill"
	}
	if msg.Timeout == 0 {
		msg.Timeout = 2 * time.Second
	}
	if msg.Variant == "" {
		msg.Variant = "flat"
	}
	return msg
}
