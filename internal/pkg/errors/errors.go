package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is a generic sentinel for auth failures.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMissingNaturalKey marks an upsert that was skipped because a
	// mandatory natural-key field was blank. Callers treat it as
	// "not performed", not as a storage failure.
	ErrMissingNaturalKey = errors.New("missing natural key: invalid argument")
)
