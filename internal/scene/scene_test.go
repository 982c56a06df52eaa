package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
)

func TestResolveSubstitutesLocation(t *testing.T) {
	r := NewResolver()

	cmds, err := r.Resolve("work_mode", location.Bedroom)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	for i, cmd := range cmds {
		if cmd.Location != location.Bedroom {
			t.Errorf("cmds[%d].Location = %q, want bedroom", i, cmd.Location)
		}
	}
}

func TestResolveDefaultLocation(t *testing.T) {
	r := NewResolver()

	cmds, err := r.Resolve("sleep_mode", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i, cmd := range cmds {
		if cmd.Location != location.Bedroom {
			t.Errorf("cmds[%d].Location = %q, want default bedroom", i, cmd.Location)
		}
	}

	// Unresolved "current" falls back to the default too.
	cmds, err = r.Resolve("sleep_mode", location.Current)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cmds[0].Location != location.Bedroom {
		t.Errorf("current should fall back to default, got %q", cmds[0].Location)
	}
}

func TestResolvePreservesStepOrder(t *testing.T) {
	r := NewResolver()

	cmds, err := r.Resolve("movie_mode", location.LivingRoom)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cmds) != 2 {
		t.Fatalf("got %d commands, want 2", len(cmds))
	}
	if cmds[0].Action != device.ActionSetBrightness {
		t.Errorf("first step = %s, want set_brightness before curtain close", cmds[0].Action)
	}
	if cmds[1].Device != device.TypeCurtain || cmds[1].Action != device.ActionClose {
		t.Errorf("second step = %s %s, want curtain close", cmds[1].Device, cmds[1].Action)
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewResolver()

	a, err := r.Resolve("home_mode", location.LivingRoom)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	b, err := r.Resolve("home_mode", location.LivingRoom)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Device != b[i].Device || a[i].Action != b[i].Action || a[i].Location != b[i].Location {
			t.Errorf("step %d differs between resolves: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestResolvePinnedLocationsWin(t *testing.T) {
	r := NewResolver()

	cmds, err := r.Resolve("away_mode", location.Kitchen)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i, cmd := range cmds {
		if cmd.Location != location.All {
			t.Errorf("cmds[%d].Location = %q, want pinned all", i, cmd.Location)
		}
	}
}

func TestResolveUnknownScene(t *testing.T) {
	r := NewResolver()
	if _, err := r.Resolve("party_mode", location.LivingRoom); !errors.Is(err, ErrSceneNotFound) {
		t.Errorf("Resolve(party_mode) = %v, want ErrSceneNotFound", err)
	}
}

func TestLoadFileMergesAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	doc := `scenes:
  - name: reading_mode
    default_location: study
    steps:
      - device: desk_lamp
        action: "on"
        parameters:
          brightness: 100
  - name: work_mode
    default_location: study
    steps:
      - device: ceiling_light
        action: "on"
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	cmds, err := r.Resolve("reading_mode", "")
	if err != nil {
		t.Fatalf("Resolve(reading_mode): %v", err)
	}
	if len(cmds) != 1 || cmds[0].Device != device.TypeDeskLamp {
		t.Errorf("unexpected reading_mode commands: %+v", cmds)
	}

	cmds, err = r.Resolve("work_mode", "")
	if err != nil {
		t.Fatalf("Resolve(work_mode): %v", err)
	}
	if len(cmds) != 1 {
		t.Errorf("file override should replace builtin work_mode, got %d steps", len(cmds))
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenes.yaml")
	if err := os.WriteFile(path, []byte("scenes:\n  - name: empty_scene\n    steps: []\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	r := NewResolver()
	if err := r.LoadFile(path); !errors.Is(err, ErrInvalidScene) {
		t.Errorf("LoadFile = %v, want ErrInvalidScene", err)
	}
}

func TestNamesSorted(t *testing.T) {
	r := NewResolver()
	names := r.Names()
	if len(names) != len(builtins) {
		t.Fatalf("Names() = %d entries, want %d", len(names), len(builtins))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names() not sorted: %q before %q", names[i-1], names[i])
		}
	}
}
