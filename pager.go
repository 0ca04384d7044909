/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package crudstore

// Pager controls an infinite-scroll loader. Loaded means more pages may
// follow; Complete means the page sequence is exhausted.
type Pager interface {
	Loaded()
	Complete()
}

// ErrorPager is a Pager that can also display a failed load
type ErrorPager interface {
	Pager
	Error()
}

// PagerFuncs adapts plain functions to ErrorPager. Nil funcs are skipped.
type PagerFuncs struct {
	OnLoaded   func()
	OnComplete func()
	OnError    func()
}

func (p PagerFuncs) Loaded() {
	if p.OnLoaded != nil {
		p.OnLoaded()
	}
}

func (p PagerFuncs) Complete() {
	if p.OnComplete != nil {
		p.OnComplete()
	}
}

func (p PagerFuncs) Error() {
	if p.OnError != nil {
		p.OnError()
	}
}

func pagerLoaded(p Pager) {
	if p != nil {
		p.Loaded()
	}
}

func pagerComplete(p Pager) {
	if p != nil {
		p.Complete()
	}
}

func pagerError(p Pager) {
	if ep, ok := p.(ErrorPager); ok {
		ep.Error()
	}
}
