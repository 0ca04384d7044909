/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/notify"
	"github.com/suparena/crudstore/registry"
	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service"
)

// CRUD is the capability set of a resource store
type CRUD[T any] interface {
	FetchItems(ctx context.Context, pager Pager)
	LoadMore(ctx context.Context, pager Pager)
	Search(ctx context.Context, pager Pager)
	SearchAgain(ctx context.Context, pager Pager)
	ResetSearch(ctx context.Context, pager Pager)
	OnOrderBy(ctx context.Context, pager Pager, specs []resourcemodels.OrderBy)
	SetItemsPerPage(ctx context.Context, pager Pager, n int)
	SetSearchTerm(term resourcemodels.SearchTerm)

	FetchItem(ctx context.Context, id string) (T, error)
	Save(ctx context.Context, multipart bool) (T, error)
	Update(ctx context.Context, multipart bool) (T, error)
	Destroy(ctx context.Context) error
	DialogDestroy(ctx context.Context, id string) error
	PatchItem(ctx context.Context, id, field string, value any) (T, error)

	ResetForm()
	Reset()
	ResetState()

	Data() T
	SetData(record T)
	Items() []T
	TotalItems() int
	Loading() resourcemodels.Loading
}

var _ CRUD[resourcemodels.Record] = (*Store[resourcemodels.Record])(nil)

type state[T any] struct {
	formKey      string
	data         T
	list         cursor[T]
	search       cursor[T]
	isSearching  bool
	itemsPerPage int
	orderBy      resourcemodels.OrderBy
	searchTerm   resourcemodels.SearchTerm
	destroyID    string
	loading      resourcemodels.Loading
	// itemsToken identifies the page-1 request that set loading.Items
	itemsToken   uint64
	lastErr      error
}

// Store holds the list, search and form state of one resource and drives
// its service. Methods are safe for concurrent use; the state lock is
// never held across a service or notifier call.
type Store[T any] struct {
	cfg     Config[T]
	svc     service.Service[T]
	success notify.SuccessNotifier
	confirm notify.Confirmer
	failure notify.FailureNotifier
	form    Form
	log     *logrus.Entry
	newKey  func() string

	mu         sync.Mutex
	st         state[T]
	gen        uint64
	tokens     uint64
	initialKey string
}

// New resolves cfg.ServiceName from services and builds the store
func New[T any](cfg Config[T], services ServiceSource, opts ...Option) (*Store[T], error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	svc, err := registry.Lookup[T](services, cfg.ServiceName)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "building store %s", cfg.ID)
	}
	return newStore(cfg, svc, opts), nil
}

// NewWithService builds a store around an already resolved service
func NewWithService[T any](cfg Config[T], svc service.Service[T], opts ...Option) (*Store[T], error) {
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return newStore(cfg, svc, opts), nil
}

func newStore[T any](cfg Config[T], svc service.Service[T], opts []Option) *Store[T] {
	o := options{
		success: notify.Nop{},
		confirm: notify.Nop{},
		failure: notify.Nop{},
		newKey:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Store[T]{
		cfg:     cfg,
		svc:     svc,
		success: o.success,
		confirm: o.confirm,
		failure: o.failure,
		form:    o.form,
		log:     o.log.WithField("store", cfg.ID),
		newKey:  o.newKey,
	}
	s.initialKey = s.newKey()
	s.st = s.initialState()
	return s
}

// initialState must be called with mu held or before the store is shared
func (s *Store[T]) initialState() state[T] {
	return state[T]{
		formKey:      s.initialKey,
		data:         blankCopy(s.cfg.DefaultValue),
		list:         newCursor[T](s.nextGen()),
		search:       newCursor[T](s.nextGen()),
		itemsPerPage: s.cfg.ItemsPerPage,
		orderBy:      s.defaultOrder(),
	}
}

func (s *Store[T]) nextGen() uint64 {
	s.gen++
	return s.gen
}

func (s *Store[T]) defaultOrder() resourcemodels.OrderBy {
	return resourcemodels.OrderBy{Key: s.cfg.SortKeyDefault, Order: resourcemodels.OrderAsc}
}

// resetCursors must be called with mu held. Callers that refetch set
// loading.Items again through beginItems.
func (s *Store[T]) resetCursors() {
	s.st.list.reset(s.nextGen())
	s.st.search.reset(s.nextGen())
	s.endItems(s.st.itemsToken)
}

// beginItems marks the items as loading and returns the token the response
// must present to clear the flag. Must be called with mu held.
func (s *Store[T]) beginItems() uint64 {
	s.tokens++
	s.st.itemsToken = s.tokens
	s.st.loading.Items = true
	return s.tokens
}

// endItems clears loading.Items if token belongs to the latest page-1
// request. Must be called with mu held.
func (s *Store[T]) endItems(token uint64) {
	if token != 0 && token == s.st.itemsToken {
		s.st.loading.Items = false
		s.st.itemsToken = 0
	}
}

// Reset clears both paged containers and rewinds their cursors
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCursors()
}

// ResetState restores every field to its value at construction time.
// Responses still in flight are discarded.
func (s *Store[T]) ResetState() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = s.initialState()
}

// Config returns the normalized store configuration
func (s *Store[T]) Config() Config[T] {
	return s.cfg
}

// ID returns the store id
func (s *Store[T]) ID() string {
	return s.cfg.ID
}

// Service returns the backing service
func (s *Store[T]) Service() service.Service[T] {
	return s.svc
}

// Data returns the record bound to the form
func (s *Store[T]) Data() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.data
}

// SetData replaces the record bound to the form
func (s *Store[T]) SetData(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.data = record
}

// active must be called with mu held
func (s *Store[T]) active() *cursor[T] {
	if s.st.isSearching {
		return &s.st.search
	}
	return &s.st.list
}

// Items returns a copy of the items of the active mode
func (s *Store[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active().snapshot()
}

// TotalItems is the server-reported total of the active mode
func (s *Store[T]) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active().total
}

// Page is the next list page to request
func (s *Store[T]) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.list.page
}

// SearchPage is the next search page to request
func (s *Store[T]) SearchPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.search.page
}

// IsSearching reports whether the search container is active
func (s *Store[T]) IsSearching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.isSearching
}

// SearchTerm returns the current search criteria
func (s *Store[T]) SearchTerm() resourcemodels.SearchTerm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.searchTerm
}

// OrderBy returns the sort applied to list and search requests
func (s *Store[T]) OrderBy() resourcemodels.OrderBy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.orderBy
}

// DestroyID is the id staged by DialogDestroy
func (s *Store[T]) DestroyID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.destroyID
}

// Loading returns a snapshot of the busy flags
func (s *Store[T]) Loading() resourcemodels.Loading {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.loading
}

// FormKey changes after every successful create so bound forms remount
func (s *Store[T]) FormKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.formKey
}

// ItemsPerPage is the page size sent with every request
func (s *Store[T]) ItemsPerPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.itemsPerPage
}

// LastError is the failure of the latest list or search request, if any
func (s *Store[T]) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.lastErr
}
