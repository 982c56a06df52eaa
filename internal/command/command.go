package command

import (
	"encoding/json"
	"fmt"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
)

// Command is a single device command as received on the wire.
type Command struct {
	Device     device.Type       `json:"device"`
	Action     device.Action     `json:"action"`
	Location   location.Location `json:"location"`
	Parameters map[string]any    `json:"parameters,omitempty"`
}

// Validated is a command that has passed validation. Params holds the
// numeric parameters, clamped to their declared ranges; Raw carries the
// untouched payload for free-form actions like sensor data pushes.
type Validated struct {
	Device   device.Type
	Action   device.Action
	Location location.Location
	Params   map[string]float64
	Raw      map[string]any
	Warnings []string
}

// Result reports the outcome of executing one command against one device.
type Result struct {
	Device   device.Type       `json:"device"`
	Action   device.Action     `json:"action"`
	Location location.Location `json:"location"`
	Status   string            `json:"status"`
	Message  string            `json:"message,omitempty"`
	State    device.State      `json:"state,omitempty"`
}

// Result statuses.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Failure builds a failed Result for cmd carrying the error message.
func Failure(cmd Command, err error) Result {
	return Result{
		Device:   cmd.Device,
		Action:   cmd.Action,
		Location: cmd.Location,
		Status:   StatusFailure,
		Message:  err.Error(),
	}
}

// Validate checks cmd against the capability tables. The returned Validated
// has numeric parameters clamped into range, with one warning per clamp.
// cmd.Location must already be a concrete room (see Expand).
func Validate(cmd Command) (Validated, error) {
	if err := location.Validate(cmd.Location); err != nil {
		return Validated{}, err
	}
	if !cmd.Location.IsRoom() {
		return Validated{}, location.ErrUnresolvedLocation
	}
	if !device.SupportsLocation(cmd.Device, cmd.Location) {
		if _, err := device.CapabilityFor(cmd.Device); err != nil {
			return Validated{}, fmt.Errorf("%w: %q", device.ErrUnknownType, cmd.Device)
		}
		return Validated{}, fmt.Errorf("%w: no %s in %s",
			device.ErrLocationNotSupported, cmd.Device, cmd.Location)
	}

	spec, err := device.ActionSpecFor(cmd.Device, cmd.Action)
	if err != nil {
		return Validated{}, fmt.Errorf("%w: %s cannot %s", err, cmd.Device, cmd.Action)
	}

	v := Validated{
		Device:   cmd.Device,
		Action:   cmd.Action,
		Location: cmd.Location,
	}

	if spec.FreeParams {
		v.Raw = cmd.Parameters
		return v, nil
	}

	if len(spec.Params) > 0 {
		v.Params = make(map[string]float64, len(spec.Params))
	}
	for _, p := range spec.Params {
		raw, ok := cmd.Parameters[p.Name]
		if !ok {
			if p.Required {
				return Validated{}, fmt.Errorf("%w: %s requires %q",
					device.ErrMissingParameter, cmd.Action, p.Name)
			}
			continue
		}
		val, ok := toFloat(raw)
		if !ok {
			return Validated{}, fmt.Errorf("%w: %q must be numeric, got %T",
				ErrInvalidParameter, p.Name, raw)
		}
		if val < p.Min {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"%s %v below minimum, clamped to %v", p.Name, val, p.Min))
			val = p.Min
		} else if val > p.Max {
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"%s %v above maximum, clamped to %v", p.Name, val, p.Max))
			val = p.Max
		}
		v.Params[p.Name] = val
	}
	return v, nil
}

// Expand resolves the "all" location sentinel into one command per room the
// device type exists in, preserving the capability table's room order.
// Concrete-room commands pass through as a single-element slice.
func Expand(cmd Command) ([]Command, error) {
	if err := location.Validate(cmd.Location); err != nil {
		return nil, err
	}
	if cmd.Location != location.All {
		return []Command{cmd}, nil
	}
	c, err := device.CapabilityFor(cmd.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, cmd.Device)
	}
	out := make([]Command, 0, len(c.Locations))
	for _, loc := range c.Locations {
		expanded := cmd
		expanded.Location = loc
		out = append(out, expanded)
	}
	return out, nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
