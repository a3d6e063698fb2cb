package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers never build status codes themselves; the central
// HTTP error handler maps these sentinels to 401/403/400/404/409.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	// ErrConflict signals exhausted optimistic-concurrency retries; the caller
	// should retry the whole request later.
	ErrConflict = errors.New("conflict")
	// ErrDuplicateKey is the storage-level duplicate identifier error, kept
	// distinct from generic storage failure.
	ErrDuplicateKey = errors.New("duplicate key")
)

// apiError carries a human-readable message while remaining matchable with
// errors.Is against one of the sentinels above.
type apiError struct {
	kind error
	msg  string
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.kind }

// BadRequest builds a semantic validation failure with a caller-visible message.
func BadRequest(format string, args ...any) error {
	return &apiError{kind: ErrBadRequest, msg: fmt.Sprintf(format, args...)}
}

// Forbidden builds a Forbidden error with a caller-visible message.
func Forbidden(format string, args ...any) error {
	return &apiError{kind: ErrForbidden, msg: fmt.Sprintf(format, args...)}
}

// Unauthorized builds an Unauthorized error with a caller-visible message.
func Unauthorized(format string, args ...any) error {
	return &apiError{kind: ErrUnauthorized, msg: fmt.Sprintf(format, args...)}
}

// NotFound builds a NotFound error naming the missing resource.
func NotFound(format string, args ...any) error {
	return &apiError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}
