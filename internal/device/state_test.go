package device

import (
	"errors"
	"testing"

	"github.com/reiki-home/reiki-core/internal/location"
)

func TestApplyUniversal(t *testing.T) {
	tests := []struct {
		name       string
		typ        Type
		prev       State
		action     Action
		wantStatus string
	}{
		{
			name:       "on from off",
			typ:        TypeCeilingLight,
			prev:       State{FieldStatus: StatusOff},
			action:     ActionOn,
			wantStatus: StatusOn,
		},
		{
			name:       "off from on",
			typ:        TypeFan,
			prev:       State{FieldStatus: StatusOn},
			action:     ActionOff,
			wantStatus: StatusOff,
		},
		{
			name:       "toggle from off",
			typ:        TypeDeskLamp,
			prev:       State{FieldStatus: StatusOff},
			action:     ActionToggle,
			wantStatus: StatusOn,
		},
		{
			name:       "toggle from on",
			typ:        TypeDeskLamp,
			prev:       State{FieldStatus: StatusOn},
			action:     ActionToggle,
			wantStatus: StatusOff,
		},
		{
			name:       "curtain on opens",
			typ:        TypeCurtain,
			prev:       State{FieldStatus: StatusClosed, FieldPosition: float64(0)},
			action:     ActionOn,
			wantStatus: StatusOpen,
		},
		{
			name:       "curtain off closes",
			typ:        TypeCurtain,
			prev:       State{FieldStatus: StatusOpen, FieldPosition: float64(100)},
			action:     ActionOff,
			wantStatus: StatusClosed,
		},
		{
			name:       "curtain toggle from closed",
			typ:        TypeCurtain,
			prev:       State{FieldStatus: StatusClosed, FieldPosition: float64(0)},
			action:     ActionToggle,
			wantStatus: StatusOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(tt.typ, tt.prev, tt.action, nil)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if next[FieldStatus] != tt.wantStatus {
				t.Errorf("status = %v, want %v", next[FieldStatus], tt.wantStatus)
			}
		})
	}
}

func TestApplyToggleIsInvolution(t *testing.T) {
	start := State{FieldStatus: StatusOff}
	once, err := Apply(TypeFan, start, ActionToggle, nil)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	twice, err := Apply(TypeFan, once, ActionToggle, nil)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if twice[FieldStatus] != start[FieldStatus] {
		t.Errorf("double toggle status = %v, want %v", twice[FieldStatus], start[FieldStatus])
	}
}

func TestApplyDoesNotMutatePrev(t *testing.T) {
	prev := State{FieldStatus: StatusOff, FieldBrightness: float64(40)}
	if _, err := Apply(TypeCeilingLight, prev, ActionBrighten, nil); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if prev[FieldStatus] != StatusOff {
		t.Errorf("prev status mutated to %v", prev[FieldStatus])
	}
	if prev[FieldBrightness] != float64(40) {
		t.Errorf("prev brightness mutated to %v", prev[FieldBrightness])
	}
}

func TestApplyLight(t *testing.T) {
	tests := []struct {
		name   string
		prev   State
		action Action
		params map[string]float64
		want   State
	}{
		{
			name:   "brighten adds step and turns on",
			prev:   State{FieldStatus: StatusOff, FieldBrightness: float64(40)},
			action: ActionBrighten,
			want:   State{FieldStatus: StatusOn, FieldBrightness: float64(60)},
		},
		{
			name:   "brighten clamps at max",
			prev:   State{FieldStatus: StatusOn, FieldBrightness: float64(95)},
			action: ActionBrighten,
			want:   State{FieldStatus: StatusOn, FieldBrightness: float64(100)},
		},
		{
			name:   "dim subtracts step",
			prev:   State{FieldStatus: StatusOn, FieldBrightness: float64(80)},
			action: ActionDim,
			want:   State{FieldStatus: StatusOn, FieldBrightness: float64(60)},
		},
		{
			name:   "dim to zero turns off",
			prev:   State{FieldStatus: StatusOn, FieldBrightness: float64(15)},
			action: ActionDim,
			want:   State{FieldStatus: StatusOff, FieldBrightness: float64(0)},
		},
		{
			name:   "set_brightness turns on",
			prev:   State{FieldStatus: StatusOff, FieldBrightness: float64(80)},
			action: ActionSetBrightness,
			params: map[string]float64{FieldBrightness: 30},
			want:   State{FieldStatus: StatusOn, FieldBrightness: float64(30)},
		},
		{
			name:   "set_brightness zero turns off",
			prev:   State{FieldStatus: StatusOn, FieldBrightness: float64(80)},
			action: ActionSetBrightness,
			params: map[string]float64{FieldBrightness: 0},
			want:   State{FieldStatus: StatusOff, FieldBrightness: float64(0)},
		},
		{
			name:   "set_color_temp leaves status alone",
			prev:   State{FieldStatus: StatusOff, FieldColorTemp: float64(4000)},
			action: ActionSetColorTemp,
			params: map[string]float64{FieldColorTemp: 3000},
			want:   State{FieldStatus: StatusOff, FieldColorTemp: float64(3000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(TypeCeilingLight, tt.prev, tt.action, tt.params)
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			for k, v := range tt.want {
				if next[k] != v {
					t.Errorf("%s = %v, want %v", k, next[k], v)
				}
			}
		})
	}
}

func TestApplyFan(t *testing.T) {
	next, err := Apply(TypeFan, State{FieldStatus: StatusOff, FieldSpeed: float64(1)},
		ActionSetSpeed, map[string]float64{FieldSpeed: 3})
	if err != nil {
		t.Fatalf("set_speed: %v", err)
	}
	if next[FieldSpeed] != float64(3) {
		t.Errorf("speed = %v, want 3", next[FieldSpeed])
	}
	if next[FieldStatus] != StatusOn {
		t.Errorf("set_speed should turn fan on, status = %v", next[FieldStatus])
	}

	next, err = Apply(TypeFan, State{FieldOscillation: false}, ActionToggleOscillation, nil)
	if err != nil {
		t.Fatalf("toggle_oscillation: %v", err)
	}
	if next[FieldOscillation] != true {
		t.Errorf("oscillation = %v, want true", next[FieldOscillation])
	}
}

func TestApplyCurtainSetPosition(t *testing.T) {
	next, err := Apply(TypeCurtain, State{FieldStatus: StatusClosed, FieldPosition: float64(0)},
		ActionSetPosition, map[string]float64{FieldPosition: 50})
	if err != nil {
		t.Fatalf("set_position: %v", err)
	}
	if next[FieldStatus] != StatusOpen {
		t.Errorf("status = %v, want open", next[FieldStatus])
	}
	if next[FieldPosition] != float64(50) {
		t.Errorf("position = %v, want 50", next[FieldPosition])
	}

	next, err = Apply(TypeCurtain, next, ActionSetPosition, map[string]float64{FieldPosition: 0})
	if err != nil {
		t.Fatalf("set_position zero: %v", err)
	}
	if next[FieldStatus] != StatusClosed {
		t.Errorf("status = %v, want closed", next[FieldStatus])
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name    string
		typ     Type
		action  Action
		params  map[string]float64
		wantErr error
	}{
		{
			name:    "sensors reject control",
			typ:     TypeSensors,
			action:  ActionOn,
			wantErr: ErrNotControllable,
		},
		{
			name:    "missing required param",
			typ:     TypeAC,
			action:  ActionSetTemperature,
			wantErr: ErrMissingParameter,
		},
		{
			name:    "action not in table",
			typ:     TypeAC,
			action:  ActionSetSpeed,
			wantErr: ErrActionNotAllowed,
		},
		{
			name:    "unknown type",
			typ:     Type("toaster"),
			action:  ActionSetSpeed,
			wantErr: ErrUnknownType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Apply(tt.typ, State{}, tt.action, tt.params)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Apply() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCapabilityLocations(t *testing.T) {
	if !SupportsLocation(TypeCeilingLight, location.Bathroom) {
		t.Error("ceiling_light should exist in bathroom")
	}
	if SupportsLocation(TypeDeskLamp, location.Kitchen) {
		t.Error("desk_lamp should not exist in kitchen")
	}
	if SupportsLocation(TypeCurtain, location.Kitchen) {
		t.Error("curtain should not exist in kitchen")
	}
	if SupportsLocation(Type("toaster"), location.Kitchen) {
		t.Error("unknown type supports no location")
	}
}

func TestActionSpecFor(t *testing.T) {
	if _, err := ActionSpecFor(TypeFan, ActionOn); err != nil {
		t.Errorf("universal action on fan: %v", err)
	}
	if _, err := ActionSpecFor(TypeSensors, ActionOn); !errors.Is(err, ErrNotControllable) {
		t.Errorf("universal action on sensors = %v, want ErrNotControllable", err)
	}
	spec, err := ActionSpecFor(TypeAC, ActionSetTemperature)
	if err != nil {
		t.Fatalf("set_temperature on ac: %v", err)
	}
	if len(spec.Params) != 1 || spec.Params[0].Name != FieldTemperature {
		t.Errorf("unexpected param spec: %+v", spec.Params)
	}
	if _, err := ActionSpecFor(TypeCurtain, ActionSetSpeed); !errors.Is(err, ErrActionNotAllowed) {
		t.Errorf("set_speed on curtain = %v, want ErrActionNotAllowed", err)
	}
}

func TestDefaultStateIsIndependentCopy(t *testing.T) {
	a, err := DefaultState(TypeCeilingLight)
	if err != nil {
		t.Fatalf("DefaultState: %v", err)
	}
	a[FieldStatus] = StatusOn

	b, err := DefaultState(TypeCeilingLight)
	if err != nil {
		t.Fatalf("DefaultState: %v", err)
	}
	if b[FieldStatus] != StatusOff {
		t.Errorf("default state shared between calls, status = %v", b[FieldStatus])
	}
}
