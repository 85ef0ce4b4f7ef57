package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is the single normalized authentication failure.
	// Every underlying cause (missing session, stale principal, forbidden
	// responses from the auth backend) reduces to this error at the identity
	// surface, always after a forced local sign-out where a session existed.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrTableNotFound marks a backend "relation does not exist" condition.
	// Read and delete paths tolerate it; create does not.
	ErrTableNotFound = errors.New("table does not exist")

	// ErrSessionMissing means no session token accompanied the call. This is
	// the expected state for anonymous callers and is never logged as an error.
	ErrSessionMissing = errors.New("auth session missing")

	// ErrSessionStale means the session references a principal that no longer
	// exists ("User from sub claim in JWT does not exist"). The local session
	// must be invalidated so it cannot be reused.
	ErrSessionStale = errors.New("session references a deleted principal")

	// ErrForbidden is a permission denial from the backend.
	ErrForbidden = errors.New("access forbidden")

	// ErrMissingFile rejects an upload with no file content, before any
	// backend call is made.
	ErrMissingFile = errors.New("no file provided")
)

// TableUnavailableError is the configuration error raised when a create
// targets a table that does not exist. Unlike the tolerant read and delete
// paths, a silent no-op here would hand the caller a phantom record.
type TableUnavailableError struct {
	Table string
}

func (e *TableUnavailableError) Error() string {
	return fmt.Sprintf("table %s is not available in this environment", e.Table)
}
