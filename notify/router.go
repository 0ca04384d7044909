/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package notify

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/suparena/crudstore/errors"
)

// User-facing texts of the failure router
const (
	MsgSessionExpired = "Sua sessão expirou, faça login novamente."
	MsgForbidden      = "Você não tem permissão para acessar este recurso."
	MsgServerError    = "Erro no servidor. Tente novamente mais tarde."
	MsgGenericError   = "Ocorreu um erro."
	MsgNetworkError   = "Erro de rede. Verifique sua conexão."
)

// Router turns failed operations into snackbar toasts, or into the
// validation dialog for 422 responses.
type Router struct {
	Snackbar   *Snackbar
	Validation *ValidationDialog

	// OnUnauthorized runs after a 401 toast, e.g. to drop the stored token.
	OnUnauthorized func()
}

// NewRouter wires a router to its dialogs
func NewRouter(snackbar *Snackbar, validation *ValidationDialog) *Router {
	return &Router{Snackbar: snackbar, Validation: validation}
}

// NotifyFailure implements FailureNotifier
func (r *Router) NotifyFailure(err error) {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return
	}

	if apiErr, ok := errors.AsAPIError(err); ok {
		switch {
		case apiErr.Status == http.StatusUnauthorized:
			r.toast(MsgSessionExpired)
			if r.OnUnauthorized != nil {
				r.OnUnauthorized()
			}
		case apiErr.Status == http.StatusForbidden:
			r.toast(MsgForbidden)
		case apiErr.Status == http.StatusUnprocessableEntity && r.Validation != nil:
			r.Validation.Show(apiErr.Status, apiErr.Fields)
		case apiErr.Status >= http.StatusInternalServerError:
			r.toast(orDefault(apiErr.Message, MsgServerError))
		default:
			r.toast(orDefault(apiErr.Message, MsgGenericError))
		}
		return
	}

	if stderrors.Is(err, errors.ErrNetwork) {
		r.toast(MsgNetworkError)
		return
	}
	r.toast(MsgGenericError)
}

func (r *Router) toast(text string) {
	if r.Snackbar == nil {
		return
	}
	r.Snackbar.Show(SnackbarMessage{
		Text:     text,
		Color:    "error",
		Timeout:  3 * time.Second,
		Location: "top center",
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
