/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package service

import (
	"context"

	"github.com/suparena/crudstore/resourcemodels"
)

// Service is the uniform contract every resource exposes.
type Service[T any] interface {
	FetchAll(ctx context.Context, query resourcemodels.ListQuery) (*resourcemodels.Page[T], error)

	Fetch(ctx context.Context, id string) (T, error)

	Create(ctx context.Context, record T, opts resourcemodels.WriteOptions) (T, error)

	Update(ctx context.Context, record T, id string, opts resourcemodels.WriteOptions) (T, error)

	Destroy(ctx context.Context, id string) error

	Search(ctx context.Context, query resourcemodels.SearchQuery) (*resourcemodels.Page[T], error)
}

// Patcher is implemented by services that can change a single field of a record
type Patcher[T any] interface {
	Patch(ctx context.Context, id, field string, value any) (T, error)
}

// Looker is implemented by services that expose auxiliary option lists,
// such as "listar/clientes" on the proposal endpoint.
type Looker interface {
	Lookup(ctx context.Context, path, search string) ([]resourcemodels.Record, error)
}
