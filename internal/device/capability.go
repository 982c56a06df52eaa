package device

import (
	"github.com/reiki-home/reiki-core/internal/location"
)

// ParamSpec declares a numeric parameter accepted by an action. Values
// outside [Min, Max] are clamped by the validator rather than rejected.
type ParamSpec struct {
	Name     string
	Min      float64
	Max      float64
	Required bool
}

// ActionSpec declares one allowed action and its parameters. FreeParams
// marks actions whose payload is passed through unvalidated (sensor pushes).
type ActionSpec struct {
	Params     []ParamSpec
	FreeParams bool
}

// Capability declares where a device type exists, which actions it accepts
// beyond the universal on/off/toggle, and the state a fresh instance starts
// with.
type Capability struct {
	Locations []location.Location
	Actions   map[Action]ActionSpec
	Defaults  State
}

// Parameter range constants, shared between capability declarations and the
// transition function.
const (
	BrightnessMin = 0
	BrightnessMax = 100
	ColorTempMin  = 2700
	ColorTempMax  = 6500
	SpeedMin      = 1
	SpeedMax      = 5
	TempMin       = 16
	TempMax       = 32
	PositionMin   = 0
	PositionMax   = 100

	// BrightnessStep is the increment applied by brighten and dim.
	BrightnessStep = 20
)

// capabilities is the device catalogue. Location slices are in canonical
// room order; "all" expansion preserves this order.
var capabilities = map[Type]Capability{
	TypeCeilingLight: {
		Locations: []location.Location{
			location.LivingRoom, location.Bedroom, location.Kitchen,
			location.Study, location.Bathroom,
		},
		Actions: map[Action]ActionSpec{
			ActionBrighten: {},
			ActionDim:      {},
			ActionSetBrightness: {Params: []ParamSpec{
				{Name: FieldBrightness, Min: BrightnessMin, Max: BrightnessMax, Required: true},
			}},
			ActionSetColorTemp: {Params: []ParamSpec{
				{Name: FieldColorTemp, Min: ColorTempMin, Max: ColorTempMax, Required: true},
			}},
		},
		Defaults: State{
			FieldStatus:     StatusOff,
			FieldBrightness: float64(80),
			FieldColorTemp:  float64(4000),
		},
	},
	TypeDeskLamp: {
		Locations: []location.Location{location.Bedroom, location.Study},
		Actions: map[Action]ActionSpec{
			ActionBrighten: {},
			ActionDim:      {},
			ActionSetBrightness: {Params: []ParamSpec{
				{Name: FieldBrightness, Min: BrightnessMin, Max: BrightnessMax, Required: true},
			}},
			ActionSetColorTemp: {Params: []ParamSpec{
				{Name: FieldColorTemp, Min: ColorTempMin, Max: ColorTempMax, Required: true},
			}},
		},
		Defaults: State{
			FieldStatus:     StatusOff,
			FieldBrightness: float64(60),
			FieldColorTemp:  float64(3500),
		},
	},
	TypeFan: {
		Locations: []location.Location{
			location.LivingRoom, location.Bedroom, location.Study,
		},
		Actions: map[Action]ActionSpec{
			ActionSetSpeed: {Params: []ParamSpec{
				{Name: FieldSpeed, Min: SpeedMin, Max: SpeedMax, Required: true},
			}},
			ActionToggleOscillation: {},
		},
		Defaults: State{
			FieldStatus:      StatusOff,
			FieldSpeed:       float64(1),
			FieldOscillation: false,
		},
	},
	TypeExhaustFan: {
		Locations: []location.Location{location.Kitchen, location.Bathroom},
		Actions: map[Action]ActionSpec{
			ActionSetSpeed: {Params: []ParamSpec{
				{Name: FieldSpeed, Min: SpeedMin, Max: SpeedMax, Required: true},
			}},
		},
		Defaults: State{
			FieldStatus: StatusOff,
			FieldSpeed:  float64(2),
		},
	},
	TypeAC: {
		Locations: []location.Location{location.LivingRoom, location.Bedroom},
		Actions: map[Action]ActionSpec{
			ActionSetTemperature: {Params: []ParamSpec{
				{Name: FieldTemperature, Min: TempMin, Max: TempMax, Required: true},
			}},
		},
		Defaults: State{
			FieldStatus:      StatusOff,
			FieldTemperature: float64(25),
			FieldMode:        "cool",
		},
	},
	TypeCurtain: {
		Locations: []location.Location{
			location.LivingRoom, location.Bedroom, location.Study,
			location.Bathroom,
		},
		Actions: map[Action]ActionSpec{
			ActionOpen:  {},
			ActionClose: {},
			ActionSetPosition: {Params: []ParamSpec{
				{Name: FieldPosition, Min: PositionMin, Max: PositionMax, Required: true},
			}},
		},
		Defaults: State{
			FieldStatus:   StatusClosed,
			FieldPosition: float64(0),
		},
	},
	TypeSensors: {
		Locations: []location.Location{
			location.LivingRoom, location.Bedroom, location.Kitchen,
			location.Study, location.Bathroom,
		},
		Actions: map[Action]ActionSpec{
			ActionDataUpdate: {FreeParams: true},
		},
		Defaults: State{},
	},
}

// CapabilityFor returns the capability entry for t.
func CapabilityFor(t Type) (Capability, error) {
	c, ok := capabilities[t]
	if !ok {
		return Capability{}, ErrUnknownType
	}
	return c, nil
}

// SupportsLocation reports whether device type t exists in room l.
func SupportsLocation(t Type, l location.Location) bool {
	c, ok := capabilities[t]
	if !ok {
		return false
	}
	for _, loc := range c.Locations {
		if loc == l {
			return true
		}
	}
	return false
}

// ActionSpecFor returns the spec for action a on type t. Universal actions
// resolve to an empty spec for every controllable type.
func ActionSpecFor(t Type, a Action) (ActionSpec, error) {
	c, ok := capabilities[t]
	if !ok {
		return ActionSpec{}, ErrUnknownType
	}
	if IsUniversal(a) {
		if t == TypeSensors {
			return ActionSpec{}, ErrNotControllable
		}
		return ActionSpec{}, nil
	}
	spec, ok := c.Actions[a]
	if !ok {
		return ActionSpec{}, ErrActionNotAllowed
	}
	return spec, nil
}

// DefaultState returns a fresh copy of the default state for t.
func DefaultState(t Type) (State, error) {
	c, ok := capabilities[t]
	if !ok {
		return nil, ErrUnknownType
	}
	return c.Defaults.Clone(), nil
}
