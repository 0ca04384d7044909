/*
Package errors provides semantic error types for the crudstore library.

Errors fall into three groups:

	// configuration: fatal, returned at startup
	ErrNoServices, ErrServiceNotFound, ErrServiceType, ErrInvalidConfig

	// resource
	ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrUnsupported

	// transport: matched from an *APIError by HTTP status, or a *NetworkError
	ErrUnauthorized, ErrForbidden, ErrValidation, ErrServer, ErrNetwork

Usage:

	svc, err := registry.Lookup[Cliente](reg, "ClienteService")
	if errors.IsServiceNotFound(err) {
	    log.Fatal(err)
	}

	if apiErr, ok := errors.AsAPIError(err); ok && apiErr.Status == 422 {
	    // apiErr.Fields holds the per-field messages
	}

The error types implement Is so they keep matching after being wrapped.
*/
package errors
