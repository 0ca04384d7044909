/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package resourcemodels

import (
	"fmt"
	"strconv"
	"strings"
)

// Sort directions accepted by the panel API.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// Record is a schemaless resource representation, used for resources that are
// only described by a definition file.
type Record map[string]any

// ID returns the record's "id" field as a string, or "" when unset.
func (r Record) ID() string {
	return FormatID(r["id"])
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FormatID renders the id values the API produces (strings and JSON numbers)
func FormatID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	case fmt.Stringer:
		return id.String()
	default:
		return fmt.Sprintf("%v", id)
	}
}

// OrderBy is a sort specification
type OrderBy struct {
	Key   string `json:"key" yaml:"key"`
	Order string `json:"order" yaml:"order"`
}

// Normalize fills an empty order with ascending and lower-cases the direction
func (o OrderBy) Normalize() OrderBy {
	o.Order = strings.ToLower(o.Order)
	if o.Order != OrderDesc {
		o.Order = OrderAsc
	}
	return o
}

// SearchTerm is the criteria of the search mode
type SearchTerm struct {
	Field        string `json:"field" yaml:"field"`
	Search       string `json:"search" yaml:"search"`
	Relationship string `json:"relationship" yaml:"relationship"`
}

// Valid reports whether the term would produce a search request
func (s SearchTerm) Valid() bool {
	return s.Field != "" && s.Search != ""
}

// ListQuery parameters for a list page request
type ListQuery struct {
	Page      int
	SortBy    string
	SortOrder string
	// PerPage is omitted from the request when zero.
	PerPage int
	Params  map[string]string
}

// SearchQuery parameters for a search page request
type SearchQuery struct {
	Field        string
	Value        string
	Page         int
	Relationship string
	OrderBy      OrderBy
	PerPage      int
	Params       map[string]string
}

// Page is one page of a list or search result
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
}

// WriteOptions controls how a record is sent on create and update
type WriteOptions struct {
	// Multipart forces a multipart/form-data payload even without files.
	Multipart bool
}

// Loading holds the busy flags of a store, one per operation group
type Loading struct {
	Save    bool `json:"save"`
	Item    bool `json:"item"`
	Items   bool `json:"items"`
	Destroy bool `json:"destroy"`
}
