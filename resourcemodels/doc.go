/*
Package resourcemodels defines the value types shared by stores and resource services.

Key Types:

Page:
One page of a list or search response, as returned by the panel API:

	{"data": [...], "total": 42, "page": 1}

ListQuery / SearchQuery:
Parameters of a page request. A list request is sorted by OrderBy and numbered by page:

	q := ListQuery{Page: 2, SortBy: "razao_social", SortOrder: OrderAsc}

Record:
A schemaless resource used when a resource only exists as a definition:

	r := Record{"id": "7", "razao_social": "Acme"}
	r.ID() // "7"
*/
package resourcemodels
