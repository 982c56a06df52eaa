package node

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/infrastructure/mqtt"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// dispatchTimeout bounds how long an inbound node reading may wait for
// the dispatcher before being dropped.
const dispatchTimeout = 5 * time.Second

// Logger is the minimal logging interface the bridge needs.
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

// MQTTClient is the broker surface the bridge uses.
type MQTTClient interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
	IsConnected() bool
}

// Dispatcher accepts command batches for serialised execution.
type Dispatcher interface {
	Dispatch(ctx context.Context, batch []command.Command) ([]command.Result, error)
}

// Bridge connects MQTT sensor nodes to the dispatcher.
type Bridge struct {
	client     MQTTClient
	dispatcher Dispatcher
	qos        byte
	logger     Logger
}

// Deps contains everything a Bridge needs.
type Deps struct {
	Client     MQTTClient
	Dispatcher Dispatcher
	QoS        byte
	Logger     Logger
}

// New creates a node bridge. Client and Dispatcher are required.
func New(deps Deps) (*Bridge, error) {
	if deps.Client == nil {
		return nil, errors.New("node: mqtt client is required")
	}
	if deps.Dispatcher == nil {
		return nil, errors.New("node: dispatcher is required")
	}
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}

	return &Bridge{
		client:     deps.Client,
		dispatcher: deps.Dispatcher,
		qos:        deps.QoS,
		logger:     deps.Logger,
	}, nil
}

// Start subscribes to the inbound sensor topic tree.
//
// Subscriptions are restored by the MQTT client on reconnect, so Start
// only needs to run once.
func (b *Bridge) Start() error {
	topic := mqtt.Topics{}.AllSensorData()
	if err := b.client.Subscribe(topic, b.qos, b.handleSensorData); err != nil {
		return fmt.Errorf("node: subscribing to %s: %w", topic, err)
	}

	b.logger.Info("node bridge started", "topic", topic)
	return nil
}

// handleSensorData funnels one node reading through the dispatcher.
func (b *Bridge) handleSensorData(topic string, payload []byte) error {
	loc, ok := locationFromTopic(topic)
	if !ok {
		return fmt.Errorf("node: unexpected topic %q", topic)
	}
	if !loc.IsRoom() {
		return fmt.Errorf("node: topic %q: %w", topic, location.ErrUnknownLocation)
	}

	var params map[string]any
	if err := json.Unmarshal(payload, &params); err != nil {
		return fmt.Errorf("node: decoding payload on %q: %w", topic, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	results, err := b.dispatcher.Dispatch(ctx, []command.Command{{
		Device:     device.TypeSensors,
		Action:     device.ActionDataUpdate,
		Location:   loc,
		Parameters: params,
	}})
	if err != nil {
		return fmt.Errorf("node: dispatching reading for %s: %w", loc, err)
	}

	for _, r := range results {
		if r.Status == command.StatusFailure {
			b.logger.Warn("node reading rejected",
				"location", loc, "message", r.Message)
		}
	}

	b.logger.Debug("node reading applied", "location", loc)
	return nil
}

// BroadcastDeviceUpdate mirrors one device's state to its retained topic.
func (b *Bridge) BroadcastDeviceUpdate(t device.Type, loc location.Location, state device.State) {
	if !b.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(state)
	if err != nil {
		b.logger.Error("encoding device state", "device", t, "location", loc, "error", err)
		return
	}

	topic := mqtt.Topics{}.DeviceState(string(t), string(loc))
	if err := b.client.Publish(topic, payload, b.qos, true); err != nil {
		b.logger.Warn("publishing device state", "topic", topic, "error", err)
	}
}

// BroadcastSensor mirrors one room's reading to its retained topic.
func (b *Bridge) BroadcastSensor(loc location.Location, r sensor.Reading) {
	if !b.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(r)
	if err != nil {
		b.logger.Error("encoding sensor reading", "location", loc, "error", err)
		return
	}

	topic := mqtt.Topics{}.SensorState(string(loc))
	if err := b.client.Publish(topic, payload, b.qos, true); err != nil {
		b.logger.Warn("publishing sensor state", "topic", topic, "error", err)
	}
}

// locationFromTopic extracts the room from reiki/sensor/{location}.
func locationFromTopic(topic string) (location.Location, bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != mqtt.TopicPrefix || parts[1] != "sensor" {
		return "", false
	}
	return location.Location(parts[2]), true
}
