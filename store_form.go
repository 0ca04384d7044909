/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"context"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/notify"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service"
)

// Texts shown to the user after successful writes
const (
	SuccessTitle   = "Informação"
	SuccessConfirm = "OK"
	MsgCreated     = "Foi criado com sucesso!"
	MsgUpdated     = "Foi atualizado com sucesso!"
	MsgDestroyed   = "Foi excluído com sucesso!"

	ConfirmDestroyMessage = "Deseja realmente excluir este item?"
	ConfirmDestroyYes     = "Sim"
	ConfirmDestroyNo      = "Não"
)

func (s *Store[T]) showSuccess(msg string) {
	s.success.ShowSuccess(notify.SuccessMessage{
		Title:       SuccessTitle,
		Message:     msg,
		ConfirmText: SuccessConfirm,
	})
}

func (s *Store[T]) fail(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("operation failed")
	s.failure.NotifyFailure(err)
	return err
}

// FetchItem loads the record with id into Data. Data is left untouched on failure.
func (s *Store[T]) FetchItem(ctx context.Context, id string) (T, error) {
	var zero T
	s.setLoading(func(l *resourcemodels.Loading) { l.Item = true })
	defer s.setLoading(func(l *resourcemodels.Loading) { l.Item = false })

	rec, err := s.svc.Fetch(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("id", id).Warn("failed to fetch record")
		return zero, pkgerrors.Wrapf(err, "fetching %s", id)
	}

	s.mu.Lock()
	s.st.data = rec
	s.mu.Unlock()
	return rec, nil
}

// Save creates Data on the server. On success the form is reset and a new
// form key is issued.
func (s *Store[T]) Save(ctx context.Context, multipart bool) (T, error) {
	var zero T
	s.setLoading(func(l *resourcemodels.Loading) { l.Save = true })
	defer s.setLoading(func(l *resourcemodels.Loading) { l.Save = false })

	data := s.outgoing()
	created, err := s.svc.Create(ctx, data, resourcemodels.WriteOptions{Multipart: multipart})
	if err != nil {
		return zero, s.fail("save", err)
	}

	s.ResetForm()
	s.mu.Lock()
	s.st.formKey = s.newKey()
	s.mu.Unlock()

	s.log.WithField("id", s.cfg.IDOf(created)).Info("record created")
	s.showSuccess(MsgCreated)
	if s.cfg.Hooks.AfterSave != nil {
		s.cfg.Hooks.AfterSave(created)
	}
	return created, nil
}

// Update sends Data to the server and replaces it with the server
// representation. Without an id in Data it does nothing.
func (s *Store[T]) Update(ctx context.Context, multipart bool) (T, error) {
	var zero T
	data := s.outgoing()
	id := s.cfg.IDOf(data)
	if id == "" {
		return zero, nil
	}

	s.setLoading(func(l *resourcemodels.Loading) { l.Save = true })
	defer s.setLoading(func(l *resourcemodels.Loading) { l.Save = false })

	updated, err := s.svc.Update(ctx, data, id, resourcemodels.WriteOptions{Multipart: multipart})
	if err != nil {
		return zero, s.fail("update", err)
	}

	s.mu.Lock()
	s.st.data = updated
	s.st.list.replace(id, updated, s.cfg.IDOf)
	s.st.search.replace(id, updated, s.cfg.IDOf)
	s.mu.Unlock()

	s.log.WithField("id", id).Info("record updated")
	s.showSuccess(MsgUpdated)
	if s.cfg.Hooks.AfterSave != nil {
		s.cfg.Hooks.AfterSave(updated)
	}
	return updated, nil
}

func (s *Store[T]) outgoing() T {
	s.mu.Lock()
	data := s.st.data
	s.mu.Unlock()
	if s.cfg.Hooks.BeforeSave != nil {
		data = s.cfg.Hooks.BeforeSave(data)
	}
	return data
}

// Destroy deletes the record staged by DialogDestroy and drops it from both
// containers.
func (s *Store[T]) Destroy(ctx context.Context) error {
	s.mu.Lock()
	id := s.st.destroyID
	s.mu.Unlock()
	if id == "" {
		return errors.NewValidationError("id", "no record selected for deletion")
	}

	s.setLoading(func(l *resourcemodels.Loading) { l.Destroy = true })
	defer s.setLoading(func(l *resourcemodels.Loading) { l.Destroy = false })

	if err := s.svc.Destroy(ctx, id); err != nil {
		return s.fail("destroy", err)
	}

	s.mu.Lock()
	inList := s.st.list.remove(id, s.cfg.IDOf)
	inSearch := s.st.search.remove(id, s.cfg.IDOf)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"id": id, "in_list": inList, "in_search": inSearch}).Info("record destroyed")
	s.showSuccess(MsgDestroyed)
	return nil
}

// DialogDestroy stages id for deletion and asks for confirmation
func (s *Store[T]) DialogDestroy(ctx context.Context, id string) error {
	s.mu.Lock()
	s.st.destroyID = id
	s.mu.Unlock()

	return s.confirm.ShowConfirm(ctx, notify.ConfirmRequest{
		Message:     ConfirmDestroyMessage,
		ConfirmText: ConfirmDestroyYes,
		CancelText:  ConfirmDestroyNo,
		Loading:     func() bool { return s.Loading().Destroy },
		OnConfirm:   s.Destroy,
	})
}

// PatchItem changes a single field of a record and refreshes the buffered copy
func (s *Store[T]) PatchItem(ctx context.Context, id, field string, value any) (T, error) {
	var zero T
	p, ok := s.svc.(service.Patcher[T])
	if !ok {
		return zero, pkgerrors.Wrapf(errors.ErrUnsupported, "patching %s", s.cfg.ServiceName)
	}

	rec, err := p.Patch(ctx, id, field, value)
	if err != nil {
		return zero, s.fail("patch", err)
	}

	s.mu.Lock()
	s.st.list.replace(id, rec, s.cfg.IDOf)
	s.st.search.replace(id, rec, s.cfg.IDOf)
	s.mu.Unlock()
	return rec, nil
}

// ResetForm clears the bound form, blanks Data and empties both containers
func (s *Store[T]) ResetForm() {
	if s.form != nil {
		s.form.Reset()
		s.form.ResetValidation()
	}
	s.mu.Lock()
	s.st.data = blankCopy(s.cfg.DefaultValue)
	s.resetCursors()
	s.mu.Unlock()
}

func (s *Store[T]) setLoading(fn func(*resourcemodels.Loading)) {
	s.mu.Lock()
	fn(&s.st.loading)
	s.mu.Unlock()
}
