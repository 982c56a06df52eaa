package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// Logger defines the logging interface used by the Registry.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// DefaultStalenessWindow is how long a real sensor reading stays
// authoritative without being refreshed.
const DefaultStalenessWindow = 300 * time.Second

type key struct {
	Type device.Type
	Loc  location.Location
}

// Registry is the in-memory state store for devices and sensors.
type Registry struct {
	mu        sync.RWMutex
	devices   map[key]device.State
	sensors   map[location.Location]sensor.Reading
	lastReal  map[location.Location]time.Time
	staleness time.Duration
	now       func() time.Time
	logger    Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithStalenessWindow overrides the real-data staleness window.
func WithStalenessWindow(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.staleness = d
		}
	}
}

// WithClock injects the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New builds a registry seeded with the default state for every
// (type, location) pair in the capability tables and the initial simulated
// sensor readings for every room.
func New(opts ...Option) *Registry {
	r := &Registry{
		devices:   make(map[key]device.State),
		lastReal:  make(map[location.Location]time.Time),
		staleness: DefaultStalenessWindow,
		now:       time.Now,
		logger:    noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, t := range device.AllTypes() {
		if t == device.TypeSensors {
			continue
		}
		c, err := device.CapabilityFor(t)
		if err != nil {
			continue
		}
		defaults, _ := device.DefaultState(t)
		for _, loc := range c.Locations {
			r.devices[key{t, loc}] = defaults.Clone()
		}
	}
	r.sensors = sensor.SeedReadings(r.now())

	r.logger.Info("registry seeded",
		"devices", len(r.devices), "sensor_rooms", len(r.sensors))
	return r
}

// Get returns a copy of the state for one device instance.
func (r *Registry) Get(t device.Type, loc location.Location) (device.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, ok := r.devices[key{t, loc}]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, t, loc)
	}
	return st.Clone(), nil
}

// Apply runs the state transition for one device and stores the result.
// Returns a copy of the new state.
func (r *Registry) Apply(t device.Type, loc location.Location, a device.Action, params map[string]float64) (device.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := key{t, loc}
	prev, ok := r.devices[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrDeviceNotFound, t, loc)
	}
	next, err := device.Apply(t, prev, a, params)
	if err != nil {
		return nil, err
	}
	r.devices[k] = next

	r.logger.Debug("device state applied",
		"device", t, "location", loc, "action", a)
	return next.Clone(), nil
}

// Snapshot returns a deep copy of all device states, grouped by type then
// location. Sensor readings are included under the sensors type.
func (r *Registry) Snapshot() map[device.Type]map[location.Location]device.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[device.Type]map[location.Location]device.State)
	for k, st := range r.devices {
		byLoc, ok := out[k.Type]
		if !ok {
			byLoc = make(map[location.Location]device.State)
			out[k.Type] = byLoc
		}
		byLoc[k.Loc] = st.Clone()
	}

	sensors := make(map[location.Location]device.State, len(r.sensors))
	for loc, reading := range r.sensors {
		sensors[loc] = sensorState(reading)
	}
	out[device.TypeSensors] = sensors
	return out
}

// UpdateSensor overlays a real sensor payload onto a room's reading and
// marks the room as holding real data.
func (r *Registry) UpdateSensor(loc location.Location, payload map[string]any, deviceID string) (sensor.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.sensors[loc]
	if !ok {
		return sensor.Reading{}, fmt.Errorf("%w: %s", ErrSensorNotFound, loc)
	}
	now := r.now()
	next := sensor.Merge(prev, payload, deviceID, now)
	r.sensors[loc] = next
	r.lastReal[loc] = now

	r.logger.Info("real sensor data received",
		"location", loc, "device_id", deviceID)
	return next, nil
}

// Sensor returns a copy of one room's reading.
func (r *Registry) Sensor(loc location.Location) (sensor.Reading, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reading, ok := r.sensors[loc]
	return reading, ok
}

// Sensors returns a copy of all rooms' readings.
func (r *Registry) Sensors() map[location.Location]sensor.Reading {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[location.Location]sensor.Reading, len(r.sensors))
	for loc, reading := range r.sensors {
		out[loc] = reading
	}
	return out
}

// ApplySimulated stores a simulated reading unless the room holds fresh
// real data. Reports whether the write happened.
func (r *Registry) ApplySimulated(loc location.Location, reading sensor.Reading) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sensors[loc]; !ok {
		return false
	}
	if r.realDataFresh(loc) {
		return false
	}
	reading.Source = sensor.SourceSimulated
	r.sensors[loc] = reading
	return true
}

// ImpactSensors nudges a room's simulated reading to reflect a device state
// change. No-op while the room holds fresh real data. Returns the updated
// reading and whether anything changed.
func (r *Registry) ImpactSensors(loc location.Location, t device.Type, state device.State) (sensor.Reading, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.sensors[loc]
	if !ok || r.realDataFresh(loc) {
		return sensor.Reading{}, false
	}
	next := sensor.ApplyDeviceImpact(prev, t, state)
	next.LastUpdate = r.now()
	r.sensors[loc] = next
	return next, true
}

// RealDataFresh reports whether a room received real sensor data within the
// staleness window.
func (r *Registry) RealDataFresh(loc location.Location) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.realDataFresh(loc)
}

func (r *Registry) realDataFresh(loc location.Location) bool {
	last, ok := r.lastReal[loc]
	if !ok {
		return false
	}
	return r.now().Sub(last) < r.staleness
}

// sensorState renders a reading as a device-style state map so sensors fit
// the generic device snapshot shape.
func sensorState(r sensor.Reading) device.State {
	st := device.State{
		"temperature": r.Temperature,
		"humidity":    r.Humidity,
		"co2":         r.CO2,
		"voc":         r.VOC,
		"light_level": r.LightLevel,
		"motion":      r.Motion,
		"source":      string(r.Source),
		"last_update": r.LastUpdate,
	}
	if r.DeviceID != "" {
		st["device_id"] = r.DeviceID
	}
	return st
}
