package command

import "errors"

// Domain errors for the command package. Capability violations reuse the
// device package sentinels so callers can errors.Is across layers.
var (
	// ErrInvalidParameter is returned when a declared parameter is present
	// but not numeric.
	ErrInvalidParameter = errors.New("command: invalid parameter")

	// ErrEmptyBatch is returned when a control request carries no commands.
	ErrEmptyBatch = errors.New("command: empty batch")
)
