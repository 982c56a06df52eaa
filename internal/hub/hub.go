package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// Logger defines the logging interface used by the Hub.
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

// Dispatcher executes command batches. The dispatch package implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, batch []command.Command) ([]command.Result, error)
}

// SceneResolver turns a scene name into a command batch.
type SceneResolver interface {
	Resolve(name string, loc location.Location) ([]command.Command, error)
}

// StateReader is the read side of the registry the hub serves from.
type StateReader interface {
	Snapshot() map[device.Type]map[location.Location]device.State
	Sensor(loc location.Location) (sensor.Reading, bool)
	Sensors() map[location.Location]sensor.Reading
}

// Hub manages registered clients, routes their inbound messages and fans
// state changes out to everyone open.
type Hub struct {
	dispatcher Dispatcher
	scenes     SceneResolver
	state      StateReader
	logger     Logger

	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// Deps bundles Hub dependencies. Scenes is optional; Dispatcher and State
// are required.
type Deps struct {
	Dispatcher Dispatcher
	Scenes     SceneResolver
	State      StateReader
	Logger     Logger
}

// New creates a hub.
func New(deps Deps) (*Hub, error) {
	if deps.Dispatcher == nil {
		return nil, errNilDispatcher
	}
	if deps.State == nil {
		return nil, errNilState
	}
	if deps.Logger == nil {
		deps.Logger = noopLogger{}
	}
	return &Hub{
		dispatcher: deps.Dispatcher,
		scenes:     deps.Scenes,
		state:      deps.State,
		logger:     deps.Logger,
		clients:    make(map[*Client]struct{}),
	}, nil
}

// Run blocks until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a connection, sends it the init snapshot and opens it.
// The returned client is what callers pass to Route and Unregister.
func (h *Hub) Register(conn Conn) *Client {
	client := &Client{
		ID:    uuid.NewString(),
		conn:  conn,
		state: StateConnecting,
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()

	h.send(client, initEvent{
		Type:    TypeInit,
		Devices: h.state.Snapshot(),
		Sensors: h.state.Sensors(),
	})
	client.transition(StateOpen, StateConnecting)

	h.logger.Debug("client connected", "client_id", client.ID, "clients", h.ClientCount())
	return client
}

// Unregister removes a client and closes its connection. Safe to call more
// than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if !existed {
		return
	}
	client.setState(StateClosing)
	_ = client.conn.Close()
	client.setState(StateClosed)
	h.logger.Debug("client disconnected", "client_id", client.ID, "clients", h.ClientCount())
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Route handles one inbound frame from a client. Malformed payloads and
// unknown types produce an error event back to the sender; the connection
// stays open.
func (h *Hub) Route(ctx context.Context, client *Client, data []byte) {
	if client.State() != StateOpen {
		return
	}

	var msg Envelope
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(client, "malformed message: "+err.Error())
		return
	}

	switch msg.Type {
	case TypeControl:
		h.handleControl(ctx, client, msg)
	case TypeSceneCommand:
		h.handleScene(ctx, client, msg)
	case TypeSensorUpdate:
		h.handleSensorUpdate(ctx, client, msg)
	case TypeGetSensors:
		h.handleGetSensors(client, msg)
	case TypeRegistration:
		client.setDeviceInfo(msg.DeviceInfo)
		h.logger.Info("device registered", "client_id", client.ID)
	case TypePing:
		h.send(client, pongEvent{Type: TypePong})
	default:
		h.sendError(client, "unknown message type: "+msg.Type)
	}
}

// BroadcastDeviceUpdate pushes one device's new state to every open client.
func (h *Hub) BroadcastDeviceUpdate(t device.Type, loc location.Location, state device.State) {
	h.broadcast(deviceUpdateEvent{
		Type:     TypeDeviceUpdate,
		Device:   t,
		Location: loc,
		State:    state,
	})
}

// BroadcastSensor pushes one room's reading to every open client.
func (h *Hub) BroadcastSensor(loc location.Location, r sensor.Reading) {
	h.broadcast(sensorUpdateEvent{
		Type:     TypeSensorUpdate,
		Location: loc,
		Sensors:  r,
	})
}

func (h *Hub) handleControl(ctx context.Context, client *Client, msg Envelope) {
	results, err := h.dispatcher.Dispatch(ctx, msg.Commands)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.send(client, resultsEvent{Type: TypeControlResults, Results: results})
}

func (h *Hub) handleScene(ctx context.Context, client *Client, msg Envelope) {
	if h.scenes == nil {
		h.sendError(client, "scenes not available")
		return
	}
	batch, err := h.scenes.Resolve(msg.Scene, msg.Location)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	results, err := h.dispatcher.Dispatch(ctx, batch)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.send(client, resultsEvent{Type: TypeSceneResults, Scene: msg.Scene, Results: results})
}

// handleSensorUpdate funnels a node's push through the dispatcher so the
// write shares the serialized mutation path with control commands. The
// dispatcher broadcasts the resulting reading; only failures go back to the
// pushing node.
func (h *Hub) handleSensorUpdate(ctx context.Context, client *Client, msg Envelope) {
	results, err := h.dispatcher.Dispatch(ctx, []command.Command{{
		Device:     device.TypeSensors,
		Action:     device.ActionDataUpdate,
		Location:   msg.Location,
		Parameters: msg.Sensors,
	}})
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	if len(results) > 0 && results[0].Status == command.StatusFailure {
		h.sendError(client, results[0].Message)
	}
}

func (h *Hub) handleGetSensors(client *Client, msg Envelope) {
	if msg.Location != "" {
		reading, ok := h.state.Sensor(msg.Location)
		if !ok {
			h.sendError(client, "no sensors in "+string(msg.Location))
			return
		}
		h.send(client, sensorUpdateEvent{
			Type:     TypeSensorData,
			Location: msg.Location,
			Sensors:  reading,
		})
		return
	}
	h.send(client, struct {
		Type    string                               `json:"type"`
		Sensors map[location.Location]sensor.Reading `json:"sensors"`
	}{Type: TypeAllSensors, Sensors: h.state.Sensors()})
}

// broadcast marshals once and sends to every open client. Failing clients
// are unregistered after the loop.
func (h *Hub) broadcast(event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("broadcast marshal failed", "error", err)
		return
	}

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var failed []*Client
	for _, client := range clients {
		if client.State() != StateOpen {
			continue
		}
		if err := client.conn.Send(data); err != nil {
			h.logger.Warn("broadcast send failed, dropping client",
				"client_id", client.ID, "error", err)
			failed = append(failed, client)
		}
	}
	for _, client := range failed {
		h.Unregister(client)
	}
}

func (h *Hub) send(client *Client, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("send marshal failed", "error", err)
		return
	}
	if err := client.conn.Send(data); err != nil {
		h.logger.Warn("send failed, dropping client", "client_id", client.ID, "error", err)
		h.Unregister(client)
	}
}

func (h *Hub) sendError(client *Client, message string) {
	h.send(client, errorEvent{Type: TypeError, Message: message})
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clients = make(map[*Client]struct{})
	h.mu.Unlock()

	for _, client := range clients {
		client.setState(StateClosing)
		_ = client.conn.Close()
		client.setState(StateClosed)
	}
	h.logger.Info("hub closed", "clients_dropped", len(clients))
}
