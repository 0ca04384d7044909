/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/service"
)

// LoadFunc resolves a service instance, possibly doing I/O
type LoadFunc func(ctx context.Context) (any, error)

// Definition names a service and how to resolve it
type Definition struct {
	Name string
	Load LoadFunc
}

// Static returns a Definition for an already constructed service
func Static(name string, svc any) Definition {
	return Definition{
		Name: name,
		Load: func(context.Context) (any, error) { return svc, nil },
	}
}

// Source is anything that resolves a service by name
type Source interface {
	Get(name string) (any, error)
}

// Registry maps service names to resolved service instances.
// It is safe for concurrent use and read-mostly once preloaded.
type Registry struct {
	mu       sync.RWMutex
	services map[string]any
	ready    bool
	log      *logrus.Entry
}

// Option configures a Registry
type Option func(*Registry)

// WithLogger sets the logger used to report preloading
func WithLogger(log *logrus.Entry) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// New creates an empty Registry
func New(opts ...Option) *Registry {
	r := &Registry{
		services: make(map[string]any),
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a resolved service under name
func (r *Registry) Register(name string, svc any) error {
	if name == "" || svc == nil {
		return pkgerrors.Wrap(errors.ErrInvalidConfig, "register requires a name and a service")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.services[name]; exists {
		return errors.NewAlreadyExistsError("service", name)
	}
	r.services[name] = svc
	return nil
}

// Preload resolves every definition concurrently and installs the results.
// Nothing is installed unless all loaders succeed. Preloading without any
// definition fails with errors.ErrNoServices.
func (r *Registry) Preload(ctx context.Context, defs ...Definition) error {
	if len(defs) == 0 {
		return errors.ErrNoServices
	}

	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Name == "" || def.Load == nil {
			return pkgerrors.Wrap(errors.ErrInvalidConfig, "service definition requires a name and a loader")
		}
		if _, dup := seen[def.Name]; dup {
			return errors.NewAlreadyExistsError("service", def.Name)
		}
		seen[def.Name] = struct{}{}
	}

	resolved := make([]any, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		i, def := i, def
		g.Go(func() error {
			svc, err := def.Load(gctx)
			if err != nil {
				return pkgerrors.Wrapf(err, "loading service %s", def.Name)
			}
			if svc == nil {
				return pkgerrors.Wrapf(errors.ErrInvalidConfig, "loader for %s returned no service", def.Name)
			}
			resolved[i] = svc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.WithError(err).Error("failed to preload services")
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, def := range defs {
		if _, exists := r.services[def.Name]; exists {
			return errors.NewAlreadyExistsError("service", def.Name)
		}
		r.services[def.Name] = resolved[i]
	}
	r.ready = true
	r.log.WithField("count", len(defs)).Info("all services preloaded")
	return nil
}

// Get returns the service registered under name
func (r *Registry) Get(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.services[name]
	if !ok {
		return nil, errors.NewServiceNotFoundError(name)
	}
	return svc, nil
}

// Names returns the registered service names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.services))
	for k := range r.services {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Ready reports whether a Preload has completed successfully
func (r *Registry) Ready() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ready
}

// Lookup resolves name and asserts it serves records of type T
func Lookup[T any](src Source, name string) (service.Service[T], error) {
	svc, err := src.Get(name)
	if err != nil {
		return nil, err
	}

	typed, ok := svc.(service.Service[T])
	if !ok {
		var zero T
		return nil, errors.NewServiceTypeError(name, fmt.Sprintf("%T", zero), fmt.Sprintf("%T", svc))
	}
	return typed, nil
}
