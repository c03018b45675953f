package service

import "errors"

// Engine-level drop reasons. None of these produce an outbound event; the
// handler logs them and the connection observes silence, matching the
// protocol's fail-closed posture.
var (
	// ErrDenied means the connection is unknown or the room authorization
	// check failed.
	ErrDenied = errors.New("authorization denied")

	// ErrInvalid means a required field was empty or malformed.
	ErrInvalid = errors.New("invalid event")
)
