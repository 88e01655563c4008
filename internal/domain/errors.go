package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist for the calling user.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, departure before arrival).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when a unique resource already exists
// (e.g. a registered email address or a taken username).
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when credentials or a session token are
// missing, wrong, expired or revoked.
// Handlers should map this to HTTP 401.
var ErrUnauthorized = errors.New("unauthorized")
