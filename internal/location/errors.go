package location

import "errors"

// Domain errors for the location package.
var (
	// ErrUnknownLocation is returned when a location is not in the room set.
	ErrUnknownLocation = errors.New("location: unknown")

	// ErrUnresolvedLocation is returned when the "current" sentinel reaches
	// the core without being resolved to a concrete room.
	ErrUnresolvedLocation = errors.New("location: unresolved current")
)
