package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/infrastructure/database"
	"github.com/reiki-home/reiki-core/internal/location"
)

// DefaultListLimit caps ListByDevice results when no limit is given.
const DefaultListLimit = 100

// schema creates the state_history table. Additive changes only.
const schema = `
	CREATE TABLE IF NOT EXISTS state_history (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		device_type TEXT NOT NULL,
		location    TEXT NOT NULL,
		action      TEXT NOT NULL,
		state       TEXT NOT NULL,
		recorded_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_state_history_device
		ON state_history (device_type, location, recorded_at);
`

// Entry is one recorded state transition.
type Entry struct {
	ID         int64             `json:"id"`
	Device     device.Type       `json:"device"`
	Location   location.Location `json:"location"`
	Action     device.Action     `json:"action"`
	State      device.State      `json:"state"`
	RecordedAt time.Time         `json:"recorded_at"`
}

// Store appends and queries device state history.
//
// It is safe for concurrent use; the underlying connection serialises
// writes per SQLite's single-writer model.
type Store struct {
	db  *database.DB
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a history store and ensures the schema exists.
func NewStore(ctx context.Context, db *database.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("history: database is required")
	}

	s := &Store{
		db:  db,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("history: creating schema: %w", err)
	}

	return s, nil
}

// RecordStateChange appends one state transition.
//
// The state map is stored as JSON so schema changes in device state
// never require a table migration.
func (s *Store) RecordStateChange(ctx context.Context, t device.Type, loc location.Location, a device.Action, state device.State) error {
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("history: encoding state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state_history (device_type, location, action, state, recorded_at)
		VALUES (?, ?, ?, ?, ?)`,
		string(t), string(loc), string(a), string(encoded),
		s.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("history: recording state change: %w", err)
	}
	return nil
}

// ListByDevice returns the most recent entries for one device, newest first.
//
// A limit of 0 or less uses DefaultListLimit.
func (s *Store) ListByDevice(ctx context.Context, t device.Type, loc location.Location, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT id, device_type, location, action, state, recorded_at
		FROM state_history
		WHERE device_type = ? AND location = ?
		ORDER BY id DESC
		LIMIT ?`,
		string(t), string(loc), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating entries: %w", err)
	}
	return entries, nil
}

// ListRecent returns the most recent entries across all devices, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.DB.QueryContext(ctx, `
		SELECT id, device_type, location, action, state, recorded_at
		FROM state_history
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: querying entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterating entries: %w", err)
	}
	return entries, nil
}

// Prune deletes entries recorded before the cutoff.
// Returns the number of rows removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM state_history WHERE recorded_at < ?",
		cutoff.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("history: pruning entries: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: counting pruned rows: %w", err)
	}
	return removed, nil
}

// scanEntry decodes one row into an Entry.
func scanEntry(scan func(dest ...any) error) (Entry, error) {
	var e Entry
	var deviceType, loc, action, state, recordedAt string

	if err := scan(&e.ID, &deviceType, &loc, &action, &state, &recordedAt); err != nil {
		return Entry{}, fmt.Errorf("history: scanning entry: %w", err)
	}

	e.Device = device.Type(deviceType)
	e.Location = location.Location(loc)
	e.Action = device.Action(action)

	if err := json.Unmarshal([]byte(state), &e.State); err != nil {
		return Entry{}, fmt.Errorf("history: decoding state: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("history: parsing timestamp: %w", err)
	}
	e.RecordedAt = ts

	return e, nil
}
