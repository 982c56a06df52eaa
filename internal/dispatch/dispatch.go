package dispatch

import (
	"context"
	"errors"
	"strings"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// Logger defines the logging interface used by the Dispatcher.
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

// Registry is the mutable state store the dispatcher drives.
type Registry interface {
	Apply(t device.Type, loc location.Location, a device.Action, params map[string]float64) (device.State, error)
	UpdateSensor(loc location.Location, payload map[string]any, deviceID string) (sensor.Reading, error)
	ImpactSensors(loc location.Location, t device.Type, state device.State) (sensor.Reading, bool)
}

// Broadcaster pushes state changes to connected clients. The hub and the
// node bridge both implement it.
type Broadcaster interface {
	BroadcastDeviceUpdate(t device.Type, loc location.Location, state device.State)
	BroadcastSensor(loc location.Location, r sensor.Reading)
}

// Recorder persists state changes for later inspection.
type Recorder interface {
	RecordStateChange(ctx context.Context, t device.Type, loc location.Location, a device.Action, state device.State) error
}

// MetricsWriter ships state changes to the telemetry store.
type MetricsWriter interface {
	WriteDeviceMetric(t device.Type, loc location.Location, a device.Action, state device.State)
}

// ErrNotRunning is returned by Dispatch when the worker loop has stopped.
var ErrNotRunning = errors.New("dispatch: not running")

// Deps bundles Dispatcher dependencies. Registry is required; the rest are
// optional.
type Deps struct {
	Registry    Registry
	Broadcaster Broadcaster
	Recorder    Recorder
	Metrics     MetricsWriter
	Logger      Logger
	QueueSize   int
}

type request struct {
	ctx   context.Context
	batch []command.Command
	reply chan []command.Result
}

// Dispatcher owns the serialized mutation path. Construct with New, start
// the loop with Run, submit batches with Dispatch.
type Dispatcher struct {
	deps     Deps
	requests chan request
	done     chan struct{}
}

// New creates a dispatcher.
func New(deps Deps) (*Dispatcher, error) {
	if deps.Registry == nil {
		return nil, errors.New("dispatch: registry is required")
	}
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}
	if deps.QueueSize <= 0 {
		deps.QueueSize = 64
	}
	return &Dispatcher{
		deps:     deps,
		requests: make(chan request, deps.QueueSize),
		done:     make(chan struct{}),
	}, nil
}

// SetBroadcaster wires the broadcaster after construction. The hub needs
// the dispatcher to route inbound messages, so it is built second and
// attached here before Run.
func (d *Dispatcher) SetBroadcaster(b Broadcaster) {
	d.deps.Broadcaster = b
}

// Run consumes command batches until ctx is cancelled. Blocks; callers run
// it in a goroutine. Only one Run loop may be active.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)
	d.deps.Logger.Info("dispatcher started", "queue_size", cap(d.requests))

	for {
		select {
		case <-ctx.Done():
			d.deps.Logger.Info("dispatcher stopped")
			return
		case req := <-d.requests:
			results := d.processBatch(req.ctx, req.batch)
			select {
			case req.reply <- results:
			case <-req.ctx.Done():
			}
		}
	}
}

// Dispatch submits a batch and waits for its results. Results are in batch
// order, with "all" locations expanded in capability-table order.
func (d *Dispatcher) Dispatch(ctx context.Context, batch []command.Command) ([]command.Result, error) {
	if len(batch) == 0 {
		return nil, command.ErrEmptyBatch
	}
	req := request{ctx: ctx, batch: batch, reply: make(chan []command.Result, 1)}

	select {
	case d.requests <- req:
	case <-d.done:
		return nil, ErrNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case results := <-req.reply:
		return results, nil
	case <-d.done:
		return nil, ErrNotRunning
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type mutationKey struct {
	Type device.Type
	Loc  location.Location
}

// processBatch applies every command, then emits broadcasts, history and
// metrics once per mutated key.
func (d *Dispatcher) processBatch(ctx context.Context, batch []command.Command) []command.Result {
	results := make([]command.Result, 0, len(batch))

	mutated := make(map[mutationKey]device.State)
	var mutationOrder []mutationKey
	lastAction := make(map[mutationKey]device.Action)

	sensorUpdates := make(map[location.Location]sensor.Reading)
	var sensorOrder []location.Location

	noteSensor := func(loc location.Location, r sensor.Reading) {
		if _, seen := sensorUpdates[loc]; !seen {
			sensorOrder = append(sensorOrder, loc)
		}
		sensorUpdates[loc] = r
	}

	for _, raw := range batch {
		expanded, err := command.Expand(raw)
		if err != nil {
			results = append(results, command.Failure(raw, err))
			continue
		}
		for _, cmd := range expanded {
			v, err := command.Validate(cmd)
			if err != nil {
				results = append(results, command.Failure(cmd, err))
				continue
			}

			if v.Device == device.TypeSensors && v.Action == device.ActionDataUpdate {
				reading, err := d.deps.Registry.UpdateSensor(v.Location, v.Raw, payloadDeviceID(v.Raw))
				if err != nil {
					results = append(results, command.Failure(cmd, err))
					continue
				}
				noteSensor(v.Location, reading)
				results = append(results, command.Result{
					Device:   v.Device,
					Action:   v.Action,
					Location: v.Location,
					Status:   command.StatusSuccess,
				})
				continue
			}

			state, err := d.deps.Registry.Apply(v.Device, v.Location, v.Action, v.Params)
			if err != nil {
				results = append(results, command.Failure(cmd, err))
				continue
			}

			k := mutationKey{v.Device, v.Location}
			if _, seen := mutated[k]; !seen {
				mutationOrder = append(mutationOrder, k)
			}
			mutated[k] = state
			lastAction[k] = v.Action

			results = append(results, command.Result{
				Device:   v.Device,
				Action:   v.Action,
				Location: v.Location,
				Status:   command.StatusSuccess,
				Message:  strings.Join(v.Warnings, "; "),
				State:    state,
			})
		}
	}

	for _, k := range mutationOrder {
		state := mutated[k]
		if d.deps.Broadcaster != nil {
			d.deps.Broadcaster.BroadcastDeviceUpdate(k.Type, k.Loc, state)
		}
		if reading, changed := d.deps.Registry.ImpactSensors(k.Loc, k.Type, state); changed {
			noteSensor(k.Loc, reading)
		}
		if d.deps.Recorder != nil {
			if err := d.deps.Recorder.RecordStateChange(ctx, k.Type, k.Loc, lastAction[k], state); err != nil {
				d.deps.Logger.Warn("state history write failed",
					"device", k.Type, "location", k.Loc, "error", err)
			}
		}
		if d.deps.Metrics != nil {
			d.deps.Metrics.WriteDeviceMetric(k.Type, k.Loc, lastAction[k], state)
		}
	}

	if d.deps.Broadcaster != nil {
		for _, loc := range sensorOrder {
			d.deps.Broadcaster.BroadcastSensor(loc, sensorUpdates[loc])
		}
	}

	d.deps.Logger.Debug("batch processed",
		"commands", len(batch), "results", len(results), "mutations", len(mutationOrder))
	return results
}

func payloadDeviceID(payload map[string]any) string {
	id, _ := payload["device_id"].(string)
	return id
}
