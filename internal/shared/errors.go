package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a uniqueness conflict at the write layer.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidToken indicates the bearer token could not be verified.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUnknownIdentity indicates a verified auth identity without a user row.
	ErrUnknownIdentity = errors.New("unknown identity")
)
