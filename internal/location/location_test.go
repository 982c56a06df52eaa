package location

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   Location
		wantErr error
	}{
		{name: "concrete room", input: LivingRoom, wantErr: nil},
		{name: "another room", input: Bathroom, wantErr: nil},
		{name: "all sentinel", input: All, wantErr: nil},
		{name: "unresolved current", input: Current, wantErr: ErrUnresolvedLocation},
		{name: "unknown room", input: Location("garage"), wantErr: ErrUnknownLocation},
		{name: "empty", input: Location(""), wantErr: ErrUnknownLocation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate(%q) = %v, want nil", tt.input, err)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate(%q) = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestIsRoom(t *testing.T) {
	for _, room := range Rooms() {
		if !room.IsRoom() {
			t.Errorf("IsRoom(%q) = false, want true", room)
		}
	}
	for _, l := range []Location{All, Current, "attic", ""} {
		if l.IsRoom() {
			t.Errorf("IsRoom(%q) = true, want false", l)
		}
	}
}

func TestRoomsOrderIsStable(t *testing.T) {
	a := Rooms()
	b := Rooms()
	if len(a) != len(b) {
		t.Fatalf("Rooms() length changed between calls: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Rooms()[%d] = %q, then %q; order must be stable", i, a[i], b[i])
		}
	}
}
