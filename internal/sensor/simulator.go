package sensor

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/reiki-home/reiki-core/internal/location"
)

// Logger defines the logging interface used by the Simulator.
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

// Store is the sensor state the simulator drives. The registry implements
// it; ApplySimulated must refuse the write and return false while the room
// holds fresh real data.
type Store interface {
	Sensor(loc location.Location) (Reading, bool)
	ApplySimulated(loc location.Location, r Reading) bool
}

// Broadcaster pushes updated readings to connected clients.
type Broadcaster interface {
	BroadcastSensor(loc location.Location, r Reading)
}

// MotionHoldTime is how long a simulated motion event stays active.
const MotionHoldTime = 2 * time.Minute

// MotionChance is the per-tick probability of a simulated motion event.
const MotionChance = 0.1

// Simulator periodically regenerates simulated readings for every room that
// is not currently covered by fresh real data.
type Simulator struct {
	store       Store
	broadcaster Broadcaster
	interval    time.Duration
	logger      Logger
	now         func() time.Time
	rng         *rand.Rand

	mu          sync.Mutex
	motionUntil map[location.Location]time.Time
}

// Config bundles Simulator dependencies. Broadcaster and Logger are
// optional; Interval defaults to 30 seconds.
type Config struct {
	Store       Store
	Broadcaster Broadcaster
	Interval    time.Duration
	Logger      Logger
	Now         func() time.Time
	Seed        int64
}

// NewSimulator creates a simulator. It does not start ticking until Run.
func NewSimulator(cfg Config) *Simulator {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = cfg.Now().UnixNano()
	}
	return &Simulator{
		store:       cfg.Store,
		broadcaster: cfg.Broadcaster,
		interval:    cfg.Interval,
		logger:      cfg.Logger,
		now:         cfg.Now,
		rng:         rand.New(rand.NewSource(seed)),
		motionUntil: make(map[location.Location]time.Time),
	}
}

// Run ticks until ctx is cancelled. Blocks; callers run it in a goroutine.
func (s *Simulator) Run(ctx context.Context) {
	s.logger.Info("sensor simulator started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sensor simulator stopped")
			return
		case <-ticker.C:
			s.Step()
		}
	}
}

// Step regenerates one round of readings. Exported so tests can drive the
// simulator without a ticker.
func (s *Simulator) Step() {
	now := s.now()
	for _, loc := range location.Rooms() {
		prev, ok := s.store.Sensor(loc)
		if !ok {
			continue
		}
		next := Advance(prev, now, s.rng)
		next.Motion = s.motionState(loc, now)

		if !s.store.ApplySimulated(loc, next) {
			s.logger.Debug("preserving real sensor data", "location", loc)
			continue
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSensor(loc, next)
		}
	}
}

// motionState rolls for a new motion event and expires old ones.
func (s *Simulator) motionState(loc location.Location, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if until, ok := s.motionUntil[loc]; ok {
		if now.Before(until) {
			return true
		}
		delete(s.motionUntil, loc)
	}
	if s.rng.Float64() < MotionChance {
		s.motionUntil[loc] = now.Add(MotionHoldTime)
		return true
	}
	return false
}
