// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a user-supplied value failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnavailable indicates the durable store cannot be reached in the
	// current environment. Every store operation fails with it uniformly.
	ErrUnavailable = errors.New("storage unavailable")
)
