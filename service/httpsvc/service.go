/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package httpsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/suparena/crudstore/resourcemodels"
	"github.com/suparena/crudstore/service"
)

// searchSegment prefixes the search route of every endpoint
const searchSegment = "pesquisarpor"

// Service is the Resource Service of one API endpoint
type Service[T any] struct {
	client   *Client
	endpoint string
	public   bool
}

var (
	_ service.Service[resourcemodels.Record] = (*Service[resourcemodels.Record])(nil)
	_ service.Patcher[resourcemodels.Record] = (*Service[resourcemodels.Record])(nil)
	_ service.Looker                         = (*Service[resourcemodels.Record])(nil)
)

// ServiceOption configures a Service
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	public bool
}

// Public marks the endpoint as reachable without a session
func Public() ServiceOption {
	return func(o *serviceOptions) { o.public = true }
}

// New creates the service for endpoint, e.g. "cliente"
func New[T any](client *Client, endpoint string, opts ...ServiceOption) *Service[T] {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Service[T]{
		client:   client,
		endpoint: strings.Trim(endpoint, "/"),
		public:   o.public,
	}
}

// Endpoint returns the endpoint path below /api
func (s *Service[T]) Endpoint() string {
	return s.endpoint
}

func (s *Service[T]) path(parts ...string) string {
	return strings.Join(append([]string{s.endpoint}, parts...), "/")
}

// FetchAll lists one page of the endpoint
func (s *Service[T]) FetchAll(ctx context.Context, q resourcemodels.ListQuery) (*resourcemodels.Page[T], error) {
	query := pageQuery(q.Page, resourcemodels.OrderBy{Key: q.SortBy, Order: q.SortOrder}, q.PerPage, q.Params)
	return s.page(ctx, s.path(), query)
}

// Search lists one page of records whose field matches value
func (s *Service[T]) Search(ctx context.Context, q resourcemodels.SearchQuery) (*resourcemodels.Page[T], error) {
	parts := []string{searchSegment, url.PathEscape(q.Field), url.PathEscape(q.Value)}
	if q.Relationship != "" {
		parts = append(parts, url.PathEscape(q.Relationship))
	}
	query := pageQuery(q.Page, q.OrderBy, q.PerPage, q.Params)
	return s.page(ctx, s.path(parts...), query)
}

func (s *Service[T]) page(ctx context.Context, path string, query url.Values) (*resourcemodels.Page[T], error) {
	body, err := s.client.send(ctx, request{method: http.MethodGet, path: path, query: query, public: s.public})
	if err != nil {
		return nil, err
	}
	var page resourcemodels.Page[T]
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, pkgerrors.Wrapf(err, "decoding page of %s", s.endpoint)
	}
	return &page, nil
}

// Fetch retrieves a record by id
func (s *Service[T]) Fetch(ctx context.Context, id string) (T, error) {
	var rec T
	body, err := s.client.send(ctx, request{method: http.MethodGet, path: s.path(url.PathEscape(id)), public: s.public})
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(body, &rec); err != nil {
		return rec, pkgerrors.Wrapf(err, "decoding %s %s", s.endpoint, id)
	}
	return rec, nil
}

// Create posts a new record
func (s *Service[T]) Create(ctx context.Context, record T, opts resourcemodels.WriteOptions) (T, error) {
	return s.write(ctx, http.MethodPost, s.path(), record, opts)
}

// Update replaces the record stored under id. Multipart updates are sent
// as POST with _method=PUT.
func (s *Service[T]) Update(ctx context.Context, record T, id string, opts resourcemodels.WriteOptions) (T, error) {
	return s.write(ctx, http.MethodPut, s.path(url.PathEscape(id)), record, opts)
}

func (s *Service[T]) write(ctx context.Context, method, path string, record T, opts resourcemodels.WriteOptions) (T, error) {
	var out T
	payload, err := toPayload(record)
	if err != nil {
		return out, err
	}
	payload = CleanEmpty(payload)

	r := request{method: method, path: path, public: s.public}
	if opts.Multipart || HasFiles(payload) {
		var extra map[string]string
		if method == http.MethodPut {
			extra = map[string]string{"_method": http.MethodPut}
			r.method = http.MethodPost
		}
		buf, ct, err := encodeMultipart(payload, extra)
		if err != nil {
			return out, err
		}
		r.body, r.contentType = buf.Bytes(), ct
	} else {
		raw, err := json.Marshal(payload)
		if err != nil {
			return out, pkgerrors.Wrap(err, "encoding payload")
		}
		r.body, r.contentType = raw, "application/json"
	}

	body, err := s.client.send(ctx, r)
	if err != nil {
		return out, err
	}
	if err := decodeOptional(body, &out); err != nil {
		return out, pkgerrors.Wrapf(err, "decoding %s response", r.op())
	}
	return out, nil
}

// Destroy deletes the record stored under id
func (s *Service[T]) Destroy(ctx context.Context, id string) error {
	_, err := s.client.send(ctx, request{method: http.MethodDelete, path: s.path(url.PathEscape(id)), public: s.public})
	return err
}

// Patch changes one field of a record
func (s *Service[T]) Patch(ctx context.Context, id, field string, value any) (T, error) {
	var out T
	payload := CleanEmpty(map[string]any{"field": field, "value": value})
	raw, err := json.Marshal(payload)
	if err != nil {
		return out, pkgerrors.Wrap(err, "encoding patch")
	}

	body, err := s.client.send(ctx, request{
		method:      http.MethodPatch,
		path:        s.path(url.PathEscape(id)),
		body:        raw,
		contentType: "application/json",
		public:      s.public,
	})
	if err != nil {
		return out, err
	}
	if err := decodeOptional(body, &out); err != nil {
		return out, pkgerrors.Wrapf(err, "decoding patch of %s", id)
	}
	return out, nil
}

// Lookup fetches an auxiliary option list below the endpoint, such as
// "listar/clientes".
func (s *Service[T]) Lookup(ctx context.Context, path, search string) ([]resourcemodels.Record, error) {
	query := url.Values{}
	if search != "" {
		query.Set("search", search)
	}
	body, err := s.client.send(ctx, request{method: http.MethodGet, path: s.path(strings.Trim(path, "/")), query: query, public: s.public})
	if err != nil {
		return nil, err
	}

	var options []resourcemodels.Record
	if err := json.Unmarshal(body, &options); err != nil {
		return nil, pkgerrors.Wrapf(err, "decoding options of %s/%s", s.endpoint, path)
	}
	return options, nil
}

func pageQuery(page int, order resourcemodels.OrderBy, perPage int, params map[string]string) url.Values {
	raw := map[string]any{
		"sort_by":    order.Key,
		"sort_order": order.Order,
	}
	if page > 0 {
		raw["page"] = strconv.Itoa(page)
	}
	if perPage > 0 {
		raw["per_page"] = strconv.Itoa(perPage)
	}
	for k, v := range params {
		raw[k] = v
	}

	query := url.Values{}
	for k, v := range CleanEmpty(raw) {
		query.Set(k, v.(string))
	}
	return query
}

// decodeOptional decodes body into v unless the server answered with no content
func decodeOptional(body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	return json.Unmarshal(body, v)
}
