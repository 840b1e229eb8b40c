package backend

import (
	"errors"

	"wedhub/internal/domain"
)

var (
	// ErrNoSession is returned before any network I/O when the caller has no
	// valid session to authorize the request. Shared with the service layer
	// so errors.Is works across both.
	ErrNoSession = domain.ErrNoSession

	// ErrUnavailable covers transport failures: connection errors, timeouts,
	// 5xx responses. Previously loaded data stays usable.
	ErrUnavailable = errors.New("backend: unavailable")

	// ErrRejected is a domain rejection: the server answered but reported
	// success=false (invalid transition, stale booking, validation failure).
	ErrRejected = errors.New("backend: rejected")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("backend: not found")

	// ErrInvalidResponse is returned when the envelope or payload cannot be
	// decoded, including unknown status values.
	ErrInvalidResponse = errors.New("backend: invalid response")
)
