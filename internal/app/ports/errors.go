package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrAuthentication is returned when the game service rejects a login.
	ErrAuthentication = errors.New("authentication failed")
	// ErrTransport is returned when a remote call could not be completed.
	ErrTransport = errors.New("transport failure")
)
