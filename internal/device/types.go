package device

// Type represents the specific kind of device.
type Type string

// Device types. "sensors" is the read-mostly environmental bundle per room;
// its state is updated through sensor pushes rather than control actions.
const (
	TypeCeilingLight Type = "ceiling_light"
	TypeDeskLamp     Type = "desk_lamp"
	TypeFan          Type = "fan"
	TypeExhaustFan   Type = "exhaust_fan"
	TypeAC           Type = "ac"
	TypeCurtain      Type = "curtain"
	TypeSensors      Type = "sensors"
)

// AllTypes returns all valid device types.
func AllTypes() []Type {
	return []Type{
		TypeCeilingLight, TypeDeskLamp, TypeFan,
		TypeExhaustFan, TypeAC, TypeCurtain, TypeSensors,
	}
}

// Action represents a device operation.
type Action string

// Universal actions, allowed for every device type.
const (
	ActionOn     Action = "on"
	ActionOff    Action = "off"
	ActionToggle Action = "toggle"
)

// Type-specific actions. Which types accept which actions is declared in the
// capability tables; convenience actions (brighten/dim, open/close) take no
// parameters, parametric actions declare their numeric ranges there.
const (
	ActionOpen              Action = "open"
	ActionClose             Action = "close"
	ActionBrighten          Action = "brighten"
	ActionDim               Action = "dim"
	ActionSetBrightness     Action = "set_brightness"
	ActionSetColorTemp      Action = "set_color_temp"
	ActionSetSpeed          Action = "set_speed"
	ActionToggleOscillation Action = "toggle_oscillation"
	ActionSetTemperature    Action = "set_temperature"
	ActionSetPosition       Action = "set_position"
	ActionDataUpdate        Action = "data_update"
)

// IsUniversal reports whether a is allowed for every device type.
func IsUniversal(a Action) bool {
	return a == ActionOn || a == ActionOff || a == ActionToggle
}

// State holds the current device state as a JSON map.
//
// Examples:
//   - ceiling_light: {"status": "on", "brightness": 80, "color_temp": 4000}
//   - fan:           {"status": "off", "speed": 2, "oscillation": false}
//   - curtain:       {"status": "closed", "position": 0}
type State map[string]any

// Clone returns an independent copy of the state map.
// Values are primitives (string, bool, float64) so a shallow copy suffices.
func (s State) Clone() State {
	if s == nil {
		return nil
	}
	cpy := make(State, len(s))
	for k, v := range s {
		cpy[k] = v
	}
	return cpy
}

// State field names.
const (
	FieldStatus      = "status"
	FieldBrightness  = "brightness"
	FieldColorTemp   = "color_temp"
	FieldSpeed       = "speed"
	FieldOscillation = "oscillation"
	FieldTemperature = "temperature"
	FieldMode        = "mode"
	FieldPosition    = "position"
)

// Status values. Curtains report open/closed; everything else on/off.
const (
	StatusOn     = "on"
	StatusOff    = "off"
	StatusOpen   = "open"
	StatusClosed = "closed"
)
