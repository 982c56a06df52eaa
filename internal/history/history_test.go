package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/infrastructure/database"
	"github.com/reiki-home/reiki-core/internal/location"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()

	db, err := database.Open(database.Config{
		Path:        filepath.Join(t.TempDir(), "history.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewStore(context.Background(), db, opts...)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return store
}

func TestNewStore_NilDatabase(t *testing.T) {
	if _, err := NewStore(context.Background(), nil); err == nil {
		t.Error("NewStore(nil) expected error, got nil")
	}
}

func TestRecordAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	states := []device.State{
		{device.FieldStatus: device.StatusOn, device.FieldBrightness: float64(70)},
		{device.FieldStatus: device.StatusOn, device.FieldBrightness: float64(90)},
		{device.FieldStatus: device.StatusOff, device.FieldBrightness: float64(90)},
	}
	actions := []device.Action{device.ActionOn, device.ActionBrighten, device.ActionOff}

	for i, state := range states {
		err := store.RecordStateChange(ctx, device.TypeCeilingLight, location.Kitchen, actions[i], state)
		if err != nil {
			t.Fatalf("RecordStateChange() error = %v", err)
		}
	}

	entries, err := store.ListByDevice(ctx, device.TypeCeilingLight, location.Kitchen, 10)
	if err != nil {
		t.Fatalf("ListByDevice() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("ListByDevice() returned %d entries, want 3", len(entries))
	}

	// Newest first
	if entries[0].Action != device.ActionOff {
		t.Errorf("entries[0].Action = %q, want %q", entries[0].Action, device.ActionOff)
	}
	if entries[0].State[device.FieldStatus] != string(device.StatusOff) {
		t.Errorf("entries[0] status = %v, want off", entries[0].State[device.FieldStatus])
	}
	if got := entries[2].State[device.FieldBrightness]; got != float64(70) {
		t.Errorf("entries[2] brightness = %v, want 70", got)
	}
}

func TestListByDevice_FiltersByKey(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	state := device.State{device.FieldStatus: device.StatusOn}
	if err := store.RecordStateChange(ctx, device.TypeFan, location.Study, device.ActionOn, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}
	if err := store.RecordStateChange(ctx, device.TypeFan, location.Bedroom, device.ActionOn, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	entries, err := store.ListByDevice(ctx, device.TypeFan, location.Study, 10)
	if err != nil {
		t.Fatalf("ListByDevice() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ListByDevice() returned %d entries, want 1", len(entries))
	}
	if entries[0].Location != location.Study {
		t.Errorf("entry location = %q, want study", entries[0].Location)
	}
}

func TestListByDevice_Limit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		state := device.State{device.FieldStatus: device.StatusOn}
		if err := store.RecordStateChange(ctx, device.TypeAC, location.LivingRoom, device.ActionOn, state); err != nil {
			t.Fatalf("RecordStateChange() error = %v", err)
		}
	}

	entries, err := store.ListByDevice(ctx, device.TypeAC, location.LivingRoom, 2)
	if err != nil {
		t.Fatalf("ListByDevice() error = %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("ListByDevice() returned %d entries, want 2", len(entries))
	}
}

func TestListRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	state := device.State{device.FieldStatus: device.StatusOn}
	if err := store.RecordStateChange(ctx, device.TypeFan, location.Study, device.ActionOn, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}
	if err := store.RecordStateChange(ctx, device.TypeAC, location.Bedroom, device.ActionOn, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	entries, err := store.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("ListRecent() returned %d entries, want 2", len(entries))
	}
	if entries[0].Device != device.TypeAC {
		t.Errorf("entries[0].Device = %q, want ac (newest first)", entries[0].Device)
	}
}

func TestPrune(t *testing.T) {
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := openTestStore(t, WithClock(func() time.Time { return current }))
	ctx := context.Background()

	state := device.State{device.FieldStatus: device.StatusOn}

	// Old entry
	if err := store.RecordStateChange(ctx, device.TypeFan, location.Study, device.ActionOn, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	// Recent entry
	current = current.Add(48 * time.Hour)
	if err := store.RecordStateChange(ctx, device.TypeFan, location.Study, device.ActionOff, state); err != nil {
		t.Fatalf("RecordStateChange() error = %v", err)
	}

	cutoff := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	removed, err := store.Prune(ctx, cutoff)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune() removed %d rows, want 1", removed)
	}

	entries, err := store.ListByDevice(ctx, device.TypeFan, location.Study, 10)
	if err != nil {
		t.Fatalf("ListByDevice() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("after prune, %d entries remain, want 1", len(entries))
	}
	if entries[0].Action != device.ActionOff {
		t.Errorf("surviving entry action = %q, want off", entries[0].Action)
	}
}
