// Package command defines the device command schema, validates incoming
// commands against the device capability tables, and expands the "all"
// location sentinel into per-room commands.
//
// Validation clamps out-of-range numeric parameters to their declared bounds
// and records a warning instead of rejecting the command. Structural problems
// (unknown device, disallowed action, unsupported location, missing required
// parameter) are hard errors.
package command
