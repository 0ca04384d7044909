/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Configuration errors. These signal a wiring bug and are never recovered from.
var (
	// ErrNoServices is returned when a registry is preloaded without any service definition
	ErrNoServices = errors.New("no services found")

	// ErrServiceNotFound is returned when a service name was never registered
	ErrServiceNotFound = errors.New("service not found")

	// ErrServiceType is returned when a registered service does not serve the requested record type
	ErrServiceType = errors.New("service has unexpected record type")

	// ErrInvalidConfig is returned when a store or client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Resource errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a service or store name is registered twice
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupported is returned when a service lacks an optional capability
	ErrUnsupported = errors.New("operation not supported by service")
)

// Transport errors
var (
	// ErrUnauthorized matches API responses with status 401
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden matches API responses with status 403
	ErrForbidden = errors.New("forbidden")

	// ErrValidation matches API responses with status 422
	ErrValidation = errors.New("validation rejected by server")

	// ErrServer matches API responses with status 5xx
	ErrServer = errors.New("server error")

	// ErrNetwork is returned when no response was received at all
	ErrNetwork = errors.New("network error")
)

// ServiceNotFoundError represents a registry lookup for an unknown service name
type ServiceNotFoundError struct {
	Name string
}

func (e *ServiceNotFoundError) Error() string {
	return fmt.Sprintf("service %s not found", e.Name)
}

func (e *ServiceNotFoundError) Is(target error) bool {
	return target == ErrServiceNotFound
}

// ServiceTypeError represents a service registered for a different record type
type ServiceTypeError struct {
	Name     string
	Expected string
	Actual   string
}

func (e *ServiceTypeError) Error() string {
	return fmt.Sprintf("service %s serves %s, not %s", e.Name, e.Actual, e.Expected)
}

func (e *ServiceTypeError) Is(target error) bool {
	return target == ErrServiceType
}

// NotFoundError represents an error when a record is not found
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents a duplicate registration
type AlreadyExistsError struct {
	Kind string
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %q already registered", e.Kind, e.Name)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// APIError is a non-2xx response from the panel API.
// Fields carries per-field messages of a 422 response.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) == 0 {
		return fmt.Sprintf("api error %d: %s", e.Status, msg)
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("api error %d: %s (%s)", e.Status, msg, strings.Join(keys, ", "))
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrForbidden:
		return e.Status == http.StatusForbidden
	case ErrValidation:
		return e.Status == http.StatusUnprocessableEntity
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrServer:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// NetworkError wraps a failure that produced no HTTP response
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// Helper functions for creating errors

// NewServiceNotFoundError creates a new ServiceNotFoundError
func NewServiceNotFoundError(name string) error {
	return &ServiceNotFoundError{Name: name}
}

// NewServiceTypeError creates a new ServiceTypeError
func NewServiceTypeError(name, expected, actual string) error {
	return &ServiceTypeError{Name: name, Expected: expected, Actual: actual}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(kind, name string) error {
	return &AlreadyExistsError{Kind: kind, Name: name}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAPIError creates a new APIError
func NewAPIError(status int, message string, fields map[string][]string) error {
	return &APIError{Status: status, Message: message, Fields: fields}
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op string, err error) error {
	return &NetworkError{Op: op, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is a duplicate registration
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsServiceNotFound checks if an error is a missing service registration
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

// IsConfiguration reports whether err is one of the fatal configuration errors
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrNoServices) ||
		errors.Is(err, ErrServiceNotFound) ||
		errors.Is(err, ErrServiceType) ||
		errors.Is(err, ErrInvalidConfig)
}

// IsValidationError checks if an error is a local or server-side validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrValidation)
}

// IsRetryable reports whether a request failing with err may be repeated.
// Network failures and 5xx responses are retryable; everything else is final.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrServer)
}

// AsAPIError extracts the APIError from err, if any
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
