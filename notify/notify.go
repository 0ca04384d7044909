/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package notify

import "context"

// SuccessMessage is the content of a success dialog
type SuccessMessage struct {
	Title       string
	Message     string
	ConfirmText string
}

// ConfirmRequest asks the user to confirm a destructive action
type ConfirmRequest struct {
	Message     string
	ConfirmText string
	CancelText  string
	// Loading reports whether the action is still running. May be nil.
	Loading     func() bool
	OnConfirm   func(ctx context.Context) error
}

// SuccessNotifier shows the outcome of a successful write
type SuccessNotifier interface {
	ShowSuccess(msg SuccessMessage)
}

// Confirmer opens a confirmation round-trip. Interactive implementations
// return immediately and run OnConfirm later; synchronous ones run it before
// returning and report its error.
type Confirmer interface {
	ShowConfirm(ctx context.Context, req ConfirmRequest) error
}

// FailureNotifier reports a failed operation to the user
type FailureNotifier interface {
	NotifyFailure(err error)
}

// Nop discards every notification and never confirms
type Nop struct{}

func (Nop) ShowSuccess(SuccessMessage) {}

func (Nop) ShowConfirm(context.Context, ConfirmRequest) error { return nil }

func (Nop) NotifyFailure(error) {}
