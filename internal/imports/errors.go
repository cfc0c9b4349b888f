package imports

import "errors"

var (
	// ErrNotFound indicates the requested session or item doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrRootNotFound indicates the import root path does not exist or
	// is not a directory.
	ErrRootNotFound = errors.New("import root not found")

	// ErrItemNotInSession indicates an item id that belongs to a
	// different session than the one named in the call.
	ErrItemNotInSession = errors.New("item does not belong to session")

	// ErrInvalidState indicates a lifecycle operation that the session's
	// current status does not permit.
	ErrInvalidState = errors.New("invalid session state")
)
