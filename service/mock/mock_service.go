/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of service.Service for testing
package mock

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/suparena/crudstore/errors"
	"github.com/suparena/crudstore/resourcemodels"
)

// DefaultPerPage is the page size used when a query does not carry one
const DefaultPerPage = 10

// Call records one invocation of the mock
type Call struct {
	Method string
	Args   []any
}

// Service is a mock implementation of service.Service[T] for testing
type Service[T any] struct {
	mu    sync.RWMutex
	order []string
	data  map[string]T
	calls []Call
	seq   int

	idOf         func(T) string
	withID       func(T, string) T
	matchFunc    func(record T, field, value string) bool
	fetchAllFunc func(ctx context.Context, q resourcemodels.ListQuery) (*resourcemodels.Page[T], error)
	searchFunc   func(ctx context.Context, q resourcemodels.SearchQuery) (*resourcemodels.Page[T], error)
	fetchError   error
	createError  error
	updateError  error
	destroyError error
	patchError   error
}

// New creates a new mock Service. Records are keyed by idOf.
func New[T any](idOf func(T) string) *Service[T] {
	return &Service[T]{
		data: make(map[string]T),
		idOf: idOf,
	}
}

// NewRecords creates a mock Service over schemaless records
func NewRecords() *Service[resourcemodels.Record] {
	return New(func(r resourcemodels.Record) string { return r.ID() }).
		WithIDSetter(func(r resourcemodels.Record, id string) resourcemodels.Record {
			out := r.Clone()
			out["id"] = id
			return out
		})
}

// WithIDSetter sets the function used by Create to assign generated ids
func (m *Service[T]) WithIDSetter(f func(T, string) T) *Service[T] {
	m.withID = f
	return m
}

// WithMatchFunc sets the predicate used by the default Search
func (m *Service[T]) WithMatchFunc(f func(record T, field, value string) bool) *Service[T] {
	m.matchFunc = f
	return m
}

// WithFetchAllFunc replaces the default FetchAll
func (m *Service[T]) WithFetchAllFunc(f func(ctx context.Context, q resourcemodels.ListQuery) (*resourcemodels.Page[T], error)) *Service[T] {
	m.fetchAllFunc = f
	return m
}

// WithSearchFunc replaces the default Search
func (m *Service[T]) WithSearchFunc(f func(ctx context.Context, q resourcemodels.SearchQuery) (*resourcemodels.Page[T], error)) *Service[T] {
	m.searchFunc = f
	return m
}

// WithFetchError makes Fetch operations return an error
func (m *Service[T]) WithFetchError(err error) *Service[T] {
	m.fetchError = err
	return m
}

// WithCreateError makes Create operations return an error
func (m *Service[T]) WithCreateError(err error) *Service[T] {
	m.createError = err
	return m
}

// WithUpdateError makes Update operations return an error
func (m *Service[T]) WithUpdateError(err error) *Service[T] {
	m.updateError = err
	return m
}

// WithDestroyError makes Destroy operations return an error
func (m *Service[T]) WithDestroyError(err error) *Service[T] {
	m.destroyError = err
	return m
}

// WithPatchError makes Patch operations return an error
func (m *Service[T]) WithPatchError(err error) *Service[T] {
	m.patchError = err
	return m
}

// FetchAll returns a page of the stored records in insertion order
func (m *Service[T]) FetchAll(ctx context.Context, q resourcemodels.ListQuery) (*resourcemodels.Page[T], error) {
	m.record("FetchAll", q)
	if m.fetchAllFunc != nil {
		return m.fetchAllFunc(ctx, q)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return paginate(m.ordered(nil), q.Page, q.PerPage), nil
}

// Fetch retrieves a record by id
func (m *Service[T]) Fetch(ctx context.Context, id string) (T, error) {
	m.record("Fetch", id)
	var zero T
	if m.fetchError != nil {
		return zero, m.fetchError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.data[id]; ok {
		return rec, nil
	}
	return zero, errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
}

// Create stores a record, assigning a sequential id when an id setter is configured
func (m *Service[T]) Create(ctx context.Context, record T, opts resourcemodels.WriteOptions) (T, error) {
	m.record("Create", record, opts)
	var zero T
	if m.createError != nil {
		return zero, m.createError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.idOf(record)
	if id == "" && m.withID != nil {
		m.seq++
		id = strconv.Itoa(m.seq)
		record = m.withID(record, id)
	}
	if id == "" {
		return zero, errors.NewValidationError("id", "unable to extract id from record")
	}

	m.put(id, record)
	return record, nil
}

// Update replaces the record stored under id
func (m *Service[T]) Update(ctx context.Context, record T, id string, opts resourcemodels.WriteOptions) (T, error) {
	m.record("Update", record, id, opts)
	var zero T
	if m.updateError != nil {
		return zero, m.updateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[id]; !exists {
		return zero, errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
	}
	m.data[id] = record
	return record, nil
}

// Destroy removes a record by id
func (m *Service[T]) Destroy(ctx context.Context, id string) error {
	m.record("Destroy", id)
	if m.destroyError != nil {
		return m.destroyError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.data[id]; !exists {
		var zero T
		return errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
	}
	delete(m.data, id)
	for i, key := range m.order {
		if key == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Search returns a page of the records accepted by the match function
func (m *Service[T]) Search(ctx context.Context, q resourcemodels.SearchQuery) (*resourcemodels.Page[T], error) {
	m.record("Search", q)
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	match := m.matchFunc
	if match == nil {
		match = defaultMatch[T]
	}
	filtered := m.ordered(func(rec T) bool { return match(rec, q.Field, q.Value) })
	return paginate(filtered, q.Page, q.PerPage), nil
}

// Patch sets one field of a record. Only schemaless records can be patched.
func (m *Service[T]) Patch(ctx context.Context, id, field string, value any) (T, error) {
	m.record("Patch", id, field, value)
	var zero T
	if m.patchError != nil {
		return zero, m.patchError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.data[id]
	if !ok {
		return zero, errors.NewNotFoundError(fmt.Sprintf("%T", zero), id)
	}
	r, ok := any(rec).(resourcemodels.Record)
	if !ok {
		return zero, errors.ErrUnsupported
	}
	r = r.Clone()
	r[field] = value
	m.data[id] = any(r).(T)
	return m.data[id], nil
}

// Helper methods for testing

// SetData replaces the stored records, keeping the given order
func (m *Service[T]) SetData(records ...T) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make(map[string]T, len(records))
	m.order = m.order[:0]
	for _, rec := range records {
		m.put(m.idOf(rec), rec)
	}
}

// GetData returns a copy of the stored records keyed by id
func (m *Service[T]) GetData() map[string]T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make(map[string]T, len(m.data))
	for k, v := range m.data {
		result[k] = v
	}
	return result
}

// Count returns the number of stored records
func (m *Service[T]) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Calls returns the recorded invocations
func (m *Service[T]) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times method was invoked
func (m *Service[T]) CallCount(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// LastCall returns the most recent invocation of method
func (m *Service[T]) LastCall(method string) (Call, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.calls) - 1; i >= 0; i-- {
		if m.calls[i].Method == method {
			return m.calls[i], true
		}
	}
	return Call{}, false
}

func (m *Service[T]) record(method string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Method: method, Args: args})
}

func (m *Service[T]) put(id string, rec T) {
	if _, exists := m.data[id]; !exists {
		m.order = append(m.order, id)
	}
	m.data[id] = rec
}

func (m *Service[T]) ordered(keep func(T) bool) []T {
	out := make([]T, 0, len(m.order))
	for _, id := range m.order {
		rec := m.data[id]
		if keep == nil || keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

func paginate[T any](records []T, page, perPage int) *resourcemodels.Page[T] {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	start := (page - 1) * perPage
	if start > len(records) {
		start = len(records)
	}
	end := start + perPage
	if end > len(records) {
		end = len(records)
	}
	return &resourcemodels.Page[T]{
		Data:  append([]T{}, records[start:end]...),
		Total: len(records),
		Page:  page,
	}
}

func defaultMatch[T any](record T, field, value string) bool {
	needle := strings.ToLower(value)
	if r, ok := any(record).(resourcemodels.Record); ok {
		return strings.Contains(strings.ToLower(fmt.Sprintf("%v", r[field])), needle)
	}
	return strings.Contains(strings.ToLower(fmt.Sprintf("%v", record)), needle)
}
