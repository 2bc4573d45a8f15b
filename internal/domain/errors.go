package domain

import "errors"

var (
	// ErrValidation marks malformed or missing input. The boundary layer
	// owns validation; core components surface it only defensively.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound means the provider found no match for the query.
	ErrNotFound = errors.New("not found")
	// ErrProvider marks transport or rate-limit failures from an external
	// provider. Not retried inside the core.
	ErrProvider = errors.New("provider failure")
	// ErrAuth marks token acquisition failure.
	ErrAuth = errors.New("provider auth failure")
)
