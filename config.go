/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/notify"
	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
)

// CRUDMarker is the substring every CRUD store id carries
const CRUDMarker = "crud/"

// IsCRUDID reports whether id follows the CRUD store naming convention
func IsCRUDID(id string) bool {
	return strings.Contains(id, CRUDMarker)
}

// ServiceSource resolves services by name, usually a *registry.Registry
type ServiceSource = registry.Source

// Form is the bound form component reset after a successful create
type Form interface {
	Reset()
	ResetValidation()
}

// Hooks are per-resource extension points
type Hooks[T any] struct {
	// AfterFetch sees every non-empty page before it is buffered.
	AfterFetch func(items []T) []T
	// BeforeSave transforms the record sent on create and update.
	BeforeSave func(record T) T
	// AfterSave receives the record returned by the server.
	AfterSave func(record T)
}

// Config describes one resource store
type Config[T any] struct {
	// ID names the store, e.g. "crud/cliente". Derived from ServiceName when empty.
	ID string
	// ServiceName is the registry name of the backing service, e.g. "ClienteService".
	ServiceName string
	// SortKeyDefault is the initial sort column.
	SortKeyDefault string
	// DefaultValue is the blank record template.
	DefaultValue T
	// IDOf extracts the record id. Defaults to Record.ID or a GetID method.
	IDOf func(T) string
	// ItemsPerPage is sent as per_page when positive.
	ItemsPerPage int
	Hooks        Hooks[T]
}

func (c *Config[T]) normalize() error {
	if c.ServiceName == "" {
		return pkgerrors.Wrap(errors.ErrInvalidConfig, "store needs a service name")
	}
	if c.SortKeyDefault == "" {
		return pkgerrors.Wrapf(errors.ErrInvalidConfig, "store for %s needs a default sort key", c.ServiceName)
	}
	if c.ID == "" {
		name := strings.TrimSuffix(c.ServiceName, "Service")
		c.ID = CRUDMarker + strings.ToLower(name)
	}
	if c.IDOf == nil {
		c.IDOf = defaultIDOf[T]
	}
	if c.ItemsPerPage < 0 {
		c.ItemsPerPage = 0
	}
	return nil
}

func defaultIDOf[T any](v T) string {
	switch r := any(v).(type) {
	case resourcemodels.Record:
		return r.ID()
	case interface{ GetID() string }:
		return r.GetID()
	}
	if r, ok := any(&v).(interface{ GetID() string }); ok {
		return r.GetID()
	}
	return ""
}

type options struct {
	success notify.SuccessNotifier
	confirm notify.Confirmer
	failure notify.FailureNotifier
	log     *logrus.Entry
	form    Form
	newKey  func() string
}

// Option configures a Store
type Option func(*options)

// WithSuccessNotifier sets where success messages go
func WithSuccessNotifier(n notify.SuccessNotifier) Option {
	return func(o *options) { o.success = n }
}

// WithConfirmer sets the confirmation dialog used by DialogDestroy
func WithConfirmer(c notify.Confirmer) Option {
	return func(o *options) { o.confirm = c }
}

// WithFailureNotifier sets where failed writes are reported
func WithFailureNotifier(n notify.FailureNotifier) Option {
	return func(o *options) { o.failure = n }
}

// WithLogger sets the store logger
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithForm binds a form component
func WithForm(f Form) Option {
	return func(o *options) { o.form = f }
}

// WithFormKeyFunc replaces the generator of form keys
func WithFormKeyFunc(fn func() string) Option {
	return func(o *options) { o.newKey = fn }
}
