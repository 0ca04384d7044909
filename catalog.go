/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"fmt"
	"sort"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/errors"
)

// Catalog keeps the stores of an application by id, whatever their record type
type Catalog struct {
	mu     sync.RWMutex
	stores map[string]any
}

// NewCatalog creates an empty Catalog
func NewCatalog() *Catalog {
	return &Catalog{
		stores: make(map[string]any),
	}
}

// Register adds a store under its id. Ids must carry the CRUD marker.
func Register[T any](c *Catalog, s *Store[T]) error {
	id := s.ID()
	if !IsCRUDID(id) {
		return pkgerrors.Wrapf(errors.ErrInvalidConfig, "store id %q lacks the %q marker", id, CRUDMarker)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.stores[id]; exists {
		return errors.NewAlreadyExistsError("store", id)
	}
	c.stores[id] = s
	return nil
}

// Get retrieves a store by id
func Get[T any](c *Catalog, id string) (*Store[T], error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, exists := c.stores[id]
	if !exists {
		return nil, errors.NewNotFoundError("store", id)
	}
	s, ok := v.(*Store[T])
	if !ok {
		return nil, errors.NewServiceTypeError(id, fmt.Sprintf("%T", (*Store[T])(nil)), fmt.Sprintf("%T", v))
	}
	return s, nil
}

// Remove deletes a store by id
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.stores[id]; !exists {
		return errors.NewNotFoundError("store", id)
	}
	delete(c.stores, id)
	return nil
}

// IDs returns the registered store ids, sorted
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.stores))
	for id := range c.stores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
