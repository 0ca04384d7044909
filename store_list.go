/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/suparena/crudstore/resourcemodels"
)

type pageFetch[T any] func(ctx context.Context) (*resourcemodels.Page[T], error)

// FetchItems requests the next list page and appends it to the list container
func (s *Store[T]) FetchItems(ctx context.Context, pager Pager) {
	s.mu.Lock()
	if s.st.isSearching {
		s.st.list.reset(s.nextGen())
		s.st.search.reset(s.nextGen())
		s.st.isSearching = false
	}
	c := &s.st.list
	if c.exhausted {
		s.mu.Unlock()
		pagerComplete(pager)
		return
	}
	q := resourcemodels.ListQuery{
		Page:      c.page,
		SortBy:    s.st.orderBy.Key,
		SortOrder: s.st.orderBy.Order,
		PerPage:   s.st.itemsPerPage,
	}
	gen := c.gen
	var token uint64
	if q.Page == 1 {
		token = s.beginItems()
	}
	s.mu.Unlock()

	s.runPage(ctx, pager, listCursor[T], q.Page, gen, token, "list", func(ctx context.Context) (*resourcemodels.Page[T], error) {
		return s.svc.FetchAll(ctx, q)
	})
}

// Search requests the next page matching the search term. Without both a
// field and a value it does nothing.
func (s *Store[T]) Search(ctx context.Context, pager Pager) {
	s.mu.Lock()
	term := s.st.searchTerm
	if !term.Valid() {
		s.mu.Unlock()
		return
	}
	if !s.st.isSearching {
		s.st.search.reset(s.nextGen())
		s.st.isSearching = true
	}
	c := &s.st.search
	if c.exhausted {
		s.mu.Unlock()
		pagerComplete(pager)
		return
	}
	q := resourcemodels.SearchQuery{
		Field:        term.Field,
		Value:        term.Search,
		Page:         c.page,
		Relationship: term.Relationship,
		OrderBy:      s.st.orderBy,
		PerPage:      s.st.itemsPerPage,
	}
	gen := c.gen
	var token uint64
	if q.Page == 1 {
		token = s.beginItems()
	}
	s.mu.Unlock()

	s.runPage(ctx, pager, searchCursor[T], q.Page, gen, token, "search", func(ctx context.Context) (*resourcemodels.Page[T], error) {
		return s.svc.Search(ctx, q)
	})
}

func listCursor[T any](st *state[T]) *cursor[T]   { return &st.list }
func searchCursor[T any](st *state[T]) *cursor[T] { return &st.search }

func (s *Store[T]) runPage(ctx context.Context, pager Pager, sel func(*state[T]) *cursor[T], requested int, gen, token uint64, mode string, fetch pageFetch[T]) {
	log := s.log.WithFields(logrus.Fields{"mode": mode, "page": requested})

	res, err := fetch(ctx)
	if err == nil && res != nil && len(res.Data) > 0 && s.cfg.Hooks.AfterFetch != nil {
		res = &resourcemodels.Page[T]{
			Data:  s.cfg.Hooks.AfterFetch(res.Data),
			Total: res.Total,
			Page:  res.Page,
		}
	}
	if err == nil && res == nil {
		res = &resourcemodels.Page[T]{}
	}

	s.mu.Lock()
	s.endItems(token)
	c := sel(&s.st)
	if gen != c.gen {
		s.mu.Unlock()
		log.Debug("discarding response of a reset container")
		return
	}

	if err != nil {
		c.fail(gen)
		s.st.lastErr = err
		s.mu.Unlock()
		log.WithError(err).Warn("failed to fetch page")
		pagerError(pager)
		return
	}

	s.st.lastErr = nil
	outcome := c.accept(requested, gen, res, s.cfg.IDOf)
	s.mu.Unlock()

	switch outcome {
	case outcomeComplete:
		log.Debug("no more pages")
		pagerComplete(pager)
	case outcomeLoaded:
		pagerLoaded(pager)
	case outcomeMismatch:
		log.WithField("returned_page", res.Page).Debug("ignoring out of order page")
	}
}

// LoadMore continues whichever mode is active
func (s *Store[T]) LoadMore(ctx context.Context, pager Pager) {
	if s.IsSearching() {
		s.Search(ctx, pager)
		return
	}
	s.FetchItems(ctx, pager)
}

// SearchAgain restarts the search from its first page
func (s *Store[T]) SearchAgain(ctx context.Context, pager Pager) {
	s.mu.Lock()
	s.st.search.reset(s.nextGen())
	s.mu.Unlock()
	s.Search(ctx, pager)
}

// ResetSearch leaves search mode and reloads the list from its first page
func (s *Store[T]) ResetSearch(ctx context.Context, pager Pager) {
	s.mu.Lock()
	s.st.searchTerm = resourcemodels.SearchTerm{}
	s.resetCursors()
	s.st.isSearching = false
	s.mu.Unlock()
	s.FetchItems(ctx, pager)
}

// SetSearchTerm replaces the search criteria without fetching
func (s *Store[T]) SetSearchTerm(term resourcemodels.SearchTerm) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.searchTerm = term
}

// OnOrderBy applies the first sort spec, or the default sort when specs is
// empty, and reloads the active mode from its first page.
func (s *Store[T]) OnOrderBy(ctx context.Context, pager Pager, specs []resourcemodels.OrderBy) {
	s.mu.Lock()
	if len(specs) > 0 && specs[0].Key != "" {
		s.st.orderBy = specs[0].Normalize()
	} else {
		s.st.orderBy = s.defaultOrder()
	}
	s.resetCursors()
	s.mu.Unlock()
	s.LoadMore(ctx, pager)
}

// SetItemsPerPage changes the page size and reloads, unless n is already
// the page size.
func (s *Store[T]) SetItemsPerPage(ctx context.Context, pager Pager, n int) {
	if n < 0 {
		n = 0
	}
	s.mu.Lock()
	if s.st.itemsPerPage == n {
		s.mu.Unlock()
		return
	}
	s.st.itemsPerPage = n
	s.resetCursors()
	s.mu.Unlock()
	s.LoadMore(ctx, pager)
}
