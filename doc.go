/*
Package crudstore provides paginated CRUD state for the resources of an
administration panel: an infinite-scroll list, a search mode with its own
paged results, a create/edit form and a confirmed delete, all backed by a
named service.Service resolved from a service registry.

List and search keep separate page containers. Every reset of a container
changes its generation, and responses that arrive for an older generation
are dropped, so a slow page can never leak into a newer listing.

Basic Usage:

	reg := registry.New()
	_ = reg.Preload(ctx, registry.Static("ClienteService", clienteSvc))

	store, err := crudstore.New(crudstore.Config[resourcemodels.Record]{
		ServiceName:    "ClienteService",
		SortKeyDefault: "razao_social",
		DefaultValue:   resourcemodels.Record{"razao_social": "", "cnpj": ""},
	}, reg, crudstore.WithFailureNotifier(router))

	store.LoadMore(ctx, pager)
	store.SetSearchTerm(resourcemodels.SearchTerm{Field: "cnpj", Search: "0001"})
	store.Search(ctx, pager)

Write failures are returned and also handed to the failure notifier; list
and search failures are only logged and kept in LastError.
*/
package crudstore
