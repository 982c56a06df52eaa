package registry

import "errors"

// Domain errors for the registry package.
var (
	// ErrDeviceNotFound is returned when no instance exists for the
	// requested (type, location) pair.
	ErrDeviceNotFound = errors.New("registry: device not found")

	// ErrSensorNotFound is returned when a room has no sensor bundle.
	ErrSensorNotFound = errors.New("registry: sensor not found")
)
