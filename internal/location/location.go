// Package location defines the closed set of rooms known to the system,
// plus the two routing sentinels used in commands.
//
// "all" fans a command out to every concrete room that supports the target
// device type. "current" is a placeholder the intent-extraction layer must
// resolve before a command reaches the core; seeing it here is an error.
package location

// Location identifies a room, or one of the routing sentinels.
type Location string

// Concrete rooms. Declaration order here is the canonical order used when
// expanding location "all" into per-room commands.
const (
	LivingRoom Location = "living_room"
	Bedroom    Location = "bedroom"
	Kitchen    Location = "kitchen"
	Study      Location = "study"
	Bathroom   Location = "bathroom"
)

// Routing sentinels.
const (
	// All targets every concrete room that supports the device type.
	All Location = "all"

	// Current refers to the speaker's room and must be resolved upstream.
	Current Location = "current"
)

// Rooms returns all concrete rooms in canonical declaration order.
func Rooms() []Location {
	return []Location{LivingRoom, Bedroom, Kitchen, Study, Bathroom}
}

// IsRoom reports whether l is a concrete room.
func (l Location) IsRoom() bool {
	switch l {
	case LivingRoom, Bedroom, Kitchen, Study, Bathroom:
		return true
	default:
		return false
	}
}

// Validate checks that l is a known room or the "all" sentinel.
// An unresolved "current" is rejected with ErrUnresolvedLocation so callers
// can surface the upstream resolution failure distinctly.
func Validate(l Location) error {
	if l.IsRoom() || l == All {
		return nil
	}
	if l == Current {
		return ErrUnresolvedLocation
	}
	return ErrUnknownLocation
}
