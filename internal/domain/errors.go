package domain

import "errors"

// Sentinel errors surfaced by repositories and services. Transport maps them
// to HTTP status codes; wrap with fmt.Errorf("%w: detail") to add context.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("email already registered")
)
