package device

import "errors"

// Domain errors for the device package.
var (
	// ErrUnknownType is returned when a device type is not in the catalogue.
	ErrUnknownType = errors.New("device: unknown type")

	// ErrActionNotAllowed is returned when a type does not accept an action.
	ErrActionNotAllowed = errors.New("device: action not allowed")

	// ErrLocationNotSupported is returned when a device type does not exist
	// in the requested room.
	ErrLocationNotSupported = errors.New("device: location not supported")

	// ErrMissingParameter is returned when a parametric action is invoked
	// without its required parameter.
	ErrMissingParameter = errors.New("device: missing parameter")

	// ErrNotControllable is returned when a control action targets a device
	// type that only accepts data pushes.
	ErrNotControllable = errors.New("device: not controllable")
)
