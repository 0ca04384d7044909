/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package httpsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/suparena/crudstore/errors"
)

// Defaults of a new Client
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultRetryBackoff = 200 * time.Millisecond
)

// Client talks to the panel API under {baseURL}/api
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logrus.Entry

	maxRetries   uint64
	retryBackoff time.Duration

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithToken sets the bearer token
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests to rps per second with the given burst.
// A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRetry sets how often GET requests are retried on network and 5xx
// failures, and the initial backoff between attempts.
func WithRetry(maxRetries uint64, initial time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.retryBackoff = initial
	}
}

// WithLogger sets the client logger
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient creates a client for the API served at baseURL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: DefaultTimeout},
		limiter:      rate.NewLimiter(rate.Inf, 0),
		maxRetries:   DefaultMaxRetries,
		retryBackoff: DefaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.NewEntry(logrus.StandardLogger())
	}
	c.log = c.log.WithField("component", "httpsvc")
	return c
}

// SetToken replaces the bearer token, e.g. after a new login. An empty
// token drops the Authorization header.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request is one API call relative to {baseURL}/api
type request struct {
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	public      bool
}

func (r request) op() string {
	return r.method + " " + r.path
}

// send performs r and returns the response body of a 2xx answer. GET
// requests are retried with exponential backoff while IsRetryable holds.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	if r.method != http.MethodGet || c.maxRetries == 0 {
		return c.attempt(ctx, r)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBackoff
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)

	var out []byte
	err := backoff.RetryNotify(func() error {
		body, err := c.attempt(ctx, r)
		if err != nil {
			if errors.IsRetryable(err) && ctx.Err() == nil {
				return err
			}
			return backoff.Permanent(err)
		}
		out = body
		return nil
	}, policy, func(err error, wait time.Duration) {
		c.log.WithError(err).WithFields(logrus.Fields{"op": r.op(), "wait": wait}).Warn("retrying request")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) attempt(ctx context.Context, r request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, pkgerrors.Wrapf(err, "%s: waiting for rate limiter", r.op())
	}

	target := c.baseURL + "/api/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "%s: building request", r.op())
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("public", strconv.FormatBool(r.public))
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, pkgerrors.Wrap(ctx.Err(), r.op())
		}
		return nil, errors.NewNetworkError(r.op(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewNetworkError(r.op(), err)
	}

	c.log.WithFields(logrus.Fields{
		"op":       r.op(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, data)
	}
	return data, nil
}

// errorResponse is the error body of the panel API
type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func parseError(status int, body []byte) error {
	var er errorResponse
	if len(body) > 0 && json.Unmarshal(body, &er) == nil {
		return errors.NewAPIError(status, er.Message, er.Errors)
	}
	return errors.NewAPIError(status, "", nil)
}
