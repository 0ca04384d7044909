/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

import "github.com/suparena/crudstore/resourcemodels"

type pageOutcome int

const (
	// the cursor was reset while the request was in flight
	outcomeStale pageOutcome = iota
	outcomeComplete
	outcomeLoaded
	// the response is for a page other than the one the cursor expects
	outcomeMismatch
)

// cursor is the paged result container of one mode (list or search).
// gen changes on every reset so responses issued before it can be told apart.
type cursor[T any] struct {
	items     []T
	page      int
	total     int
	exhausted bool
	gen       uint64
}

func newCursor[T any](gen uint64) cursor[T] {
	return cursor[T]{page: 1, gen: gen}
}

func (c *cursor[T]) reset(gen uint64) {
	*c = newCursor[T](gen)
}

// accept applies a page response requested for page `requested` under
// generation `gen`. Records whose id is already buffered are skipped.
func (c *cursor[T]) accept(requested int, gen uint64, res *resourcemodels.Page[T], idOf func(T) string) pageOutcome {
	if gen != c.gen {
		return outcomeStale
	}
	c.total = res.Total

	if len(res.Data) == 0 {
		c.exhausted = true
		return outcomeComplete
	}
	if res.Page != requested || c.page != requested {
		return outcomeMismatch
	}

	seen := make(map[string]struct{}, len(c.items))
	for _, it := range c.items {
		if id := idOf(it); id != "" {
			seen[id] = struct{}{}
		}
	}
	for _, it := range res.Data {
		id := idOf(it)
		if _, dup := seen[id]; dup && id != "" {
			continue
		}
		seen[id] = struct{}{}
		c.items = append(c.items, it)
	}
	c.page = res.Page + 1
	return outcomeLoaded
}

// fail clears the buffered items of the current generation
func (c *cursor[T]) fail(gen uint64) bool {
	if gen != c.gen {
		return false
	}
	c.items = nil
	return true
}

// remove drops the entry with id and reports whether one was found
func (c *cursor[T]) remove(id string, idOf func(T) string) bool {
	for i, it := range c.items {
		if idOf(it) == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			if c.total > 0 {
				c.total--
			}
			return true
		}
	}
	return false
}

// replace swaps the entry with id for rec
func (c *cursor[T]) replace(id string, rec T, idOf func(T) string) {
	for i, it := range c.items {
		if idOf(it) == id {
			c.items[i] = rec
			return
		}
	}
}

func (c *cursor[T]) snapshot() []T {
	return append([]T{}, c.items...)
}
