/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package notify

import (
	"context"
	"sync"
)

// Default texts of the confirmation dialog
const (
	DefaultConfirmMessage = "Tem certeza que deseja excluir este registro?"
	DefaultConfirmText    = "Sim, excluir"
	DefaultCancelText     = "Não, cancelar"
)

// SuccessState is a snapshot of a SuccessDialog
type SuccessState struct {
	Show bool
	SuccessMessage
}

// SuccessDialog holds the state of the success modal
type SuccessDialog struct {
	mu    sync.Mutex
	state SuccessState
}

// NewSuccessDialog creates a closed success dialog
func NewSuccessDialog() *SuccessDialog {
	d := &SuccessDialog{}
	d.reset()
	return d
}

// ShowSuccess opens the dialog with msg
func (d *SuccessDialog) ShowSuccess(msg SuccessMessage) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = SuccessState{Show: true, SuccessMessage: msg}
}

// Close hides the dialog and restores its defaults
func (d *SuccessDialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// State returns a snapshot of the dialog
func (d *SuccessDialog) State() SuccessState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *SuccessDialog) reset() {
	d.state = SuccessState{SuccessMessage: SuccessMessage{ConfirmText: "OK"}}
}

// ConfirmState is a snapshot of a ConfirmDialog
type ConfirmState struct {
	Show        bool
	Message     string
	ConfirmText string
	CancelText  string
	Loading     bool
}

// ConfirmDialog holds the state of the destructive-action confirmation modal
type ConfirmDialog struct {
	mu        sync.Mutex
	state     ConfirmState
	onConfirm func(ctx context.Context) error
	busy      func() bool
}

// NewConfirmDialog creates a closed confirmation dialog
func NewConfirmDialog() *ConfirmDialog {
	d := &ConfirmDialog{}
	d.reset()
	return d
}

// ShowConfirm opens the dialog. The callback runs on Confirm.
func (d *ConfirmDialog) ShowConfirm(_ context.Context, req ConfirmRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.state = ConfirmState{
		Show:        true,
		Message:     req.Message,
		ConfirmText: req.ConfirmText,
		CancelText:  req.CancelText,
	}
	d.onConfirm = req.OnConfirm
	d.busy = req.Loading
	return nil
}

// Confirm runs the pending callback with the dialog marked as loading.
// The dialog closes when the callback succeeds and stays open when it fails.
func (d *ConfirmDialog) Confirm(ctx context.Context) error {
	d.mu.Lock()
	cb := d.onConfirm
	d.state.Loading = true
	d.mu.Unlock()

	if cb == nil {
		d.setLoading(false)
		return nil
	}

	if err := cb(ctx); err != nil {
		d.setLoading(false)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
	return nil
}

// Cancel closes the dialog without running the callback
func (d *ConfirmDialog) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

// State returns a snapshot of the dialog. Loading is also true while the
// requester reports its action as busy.
func (d *ConfirmDialog) State() ConfirmState {
	d.mu.Lock()
	st, busy := d.state, d.busy
	d.mu.Unlock()

	if st.Show && !st.Loading && busy != nil {
		st.Loading = busy()
	}
	return st
}

func (d *ConfirmDialog) setLoading(v bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Loading = v
}

func (d *ConfirmDialog) reset() {
	d.state = ConfirmState{
		Message:     DefaultConfirmMessage,
		ConfirmText: DefaultConfirmText,
		CancelText:  DefaultCancelText,
	}
	d.onConfirm = nil
	d.busy = nil
}

// ValidationState is a snapshot of a ValidationDialog
type ValidationState struct {
	Show   bool
	Status int
	Fields map[string][]string
}

// ValidationDialog lists the field errors of a rejected submission
type ValidationDialog struct {
	mu    sync.Mutex
	state ValidationState
}

// NewValidationDialog creates a hidden validation dialog
func NewValidationDialog() *ValidationDialog {
	return &ValidationDialog{}
}

// Show opens the dialog with the server's field messages
func (d *ValidationDialog) Show(status int, fields map[string][]string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cp := make(map[string][]string, len(fields))
	for k, v := range fields {
		cp[k] = append([]string(nil), v...)
	}
	d.state = ValidationState{Show: true, Status: status, Fields: cp}
}

// Hide closes the dialog and clears its messages
func (d *ValidationDialog) Hide() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = ValidationState{}
}

// State returns a snapshot of the dialog
func (d *ValidationDialog) State() ValidationState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}
