package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/dispatch"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/registry"
	"github.com/reiki-home/reiki-core/internal/scene"
)

// fakeConn records every frame pushed to it.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (f *fakeConn) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("peer gone")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	f.frames = append(f.frames, cp)
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) types(t *testing.T) []string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.frames))
	for _, frame := range f.frames {
		var env struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("bad frame %q: %v", frame, err)
		}
		out = append(out, env.Type)
	}
	return out
}

func (f *fakeConn) last(t *testing.T) map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.frames) == 0 {
		t.Fatal("no frames received")
	}
	var m map[string]any
	if err := json.Unmarshal(f.frames[len(f.frames)-1], &m); err != nil {
		t.Fatalf("bad frame: %v", err)
	}
	return m
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	reg := registry.New()
	d, err := dispatch.New(dispatch.Deps{Registry: reg})
	if err != nil {
		t.Fatalf("dispatch.New: %v", err)
	}
	h, err := New(Deps{
		Dispatcher: d,
		Scenes:     scene.NewResolver(),
		State:      reg,
	})
	if err != nil {
		t.Fatalf("hub.New: %v", err)
	}
	d.SetBroadcaster(h)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)
	t.Cleanup(cancel)
	return h
}

func TestRegisterSendsInit(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}

	client := h.Register(conn)
	if client.State() != StateOpen {
		t.Fatalf("state after register = %v, want open", client.State())
	}

	types := conn.types(t)
	if len(types) != 1 || types[0] != TypeInit {
		t.Fatalf("frames = %v, want single init", types)
	}
	init := conn.last(t)
	if init["devices"] == nil || init["sensors"] == nil {
		t.Error("init event missing devices or sensors snapshot")
	}
}

func TestRouteControl(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	msg, _ := json.Marshal(Envelope{
		Type: TypeControl,
		Commands: []command.Command{{
			Device:   device.TypeCeilingLight,
			Action:   device.ActionOn,
			Location: location.Study,
		}},
	})
	h.Route(context.Background(), client, msg)

	types := conn.types(t)
	// init, device_update broadcast, sensor_update (light impact), control_results
	hasResults := false
	hasUpdate := false
	for _, typ := range types {
		switch typ {
		case TypeControlResults:
			hasResults = true
		case TypeDeviceUpdate:
			hasUpdate = true
		}
	}
	if !hasResults {
		t.Errorf("no control_results in %v", types)
	}
	if !hasUpdate {
		t.Errorf("no device_update broadcast in %v", types)
	}
}

func TestRouteSceneCommand(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	msg, _ := json.Marshal(Envelope{Type: TypeSceneCommand, Scene: "work_mode"})
	h.Route(context.Background(), client, msg)

	last := conn.last(t)
	if last["type"] != TypeSceneResults {
		t.Fatalf("last frame = %v, want scene_results", last["type"])
	}
	results, ok := last["results"].([]any)
	if !ok || len(results) != 2 {
		t.Errorf("scene results = %v, want 2 entries", last["results"])
	}
}

func TestRouteUnknownScene(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	msg, _ := json.Marshal(Envelope{Type: TypeSceneCommand, Scene: "party_mode"})
	h.Route(context.Background(), client, msg)

	last := conn.last(t)
	if last["type"] != TypeError {
		t.Errorf("unknown scene should produce error event, got %v", last["type"])
	}
	if client.State() != StateOpen {
		t.Errorf("client state = %v, must stay open", client.State())
	}
}

func TestRouteMalformedAndUnknownType(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	h.Route(context.Background(), client, []byte("{not json"))
	if last := conn.last(t); last["type"] != TypeError {
		t.Errorf("malformed payload reply = %v, want error", last["type"])
	}

	msg, _ := json.Marshal(Envelope{Type: "teleport"})
	h.Route(context.Background(), client, msg)
	if last := conn.last(t); last["type"] != TypeError {
		t.Errorf("unknown type reply = %v, want error", last["type"])
	}
	if client.State() != StateOpen {
		t.Errorf("client state = %v, must stay open after bad input", client.State())
	}
}

func TestRoutePing(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	msg, _ := json.Marshal(Envelope{Type: TypePing})
	h.Route(context.Background(), client, msg)

	if last := conn.last(t); last["type"] != TypePong {
		t.Errorf("ping reply = %v, want pong", last["type"])
	}
}

func TestRouteGetSensors(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	msg, _ := json.Marshal(Envelope{Type: TypeGetSensors, Location: location.Kitchen})
	h.Route(context.Background(), client, msg)
	last := conn.last(t)
	if last["type"] != TypeSensorData {
		t.Fatalf("reply = %v, want sensor_data", last["type"])
	}
	if last["location"] != string(location.Kitchen) {
		t.Errorf("location = %v, want kitchen", last["location"])
	}

	msg, _ = json.Marshal(Envelope{Type: TypeGetSensors})
	h.Route(context.Background(), client, msg)
	last = conn.last(t)
	if last["type"] != TypeAllSensors {
		t.Fatalf("reply = %v, want all_sensors", last["type"])
	}
	sensors, ok := last["sensors"].(map[string]any)
	if !ok || len(sensors) != len(location.Rooms()) {
		t.Errorf("all_sensors has %d rooms, want %d", len(sensors), len(location.Rooms()))
	}
}

func TestRouteDeviceRegistration(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)
	before := len(conn.types(t))

	msg, _ := json.Marshal(Envelope{
		Type:       TypeRegistration,
		DeviceInfo: map[string]any{"model": "esp32", "room": "kitchen"},
	})
	h.Route(context.Background(), client, msg)

	if info := client.DeviceInfo(); info["model"] != "esp32" {
		t.Errorf("device info not attached: %v", info)
	}
	if len(conn.types(t)) != before {
		t.Error("device_registration must not trigger a reply or broadcast")
	}
}

func TestBroadcastIsolation(t *testing.T) {
	h := newTestHub(t)
	healthy := &fakeConn{}
	broken := &fakeConn{}

	h.Register(healthy)
	brokenClient := h.Register(broken)
	broken.fail = true

	h.BroadcastDeviceUpdate(device.TypeFan, location.Study, device.State{
		device.FieldStatus: device.StatusOn,
	})

	found := false
	for _, typ := range healthy.types(t) {
		if typ == TypeDeviceUpdate {
			found = true
		}
	}
	if !found {
		t.Error("healthy client missed broadcast")
	}
	if h.ClientCount() != 1 {
		t.Errorf("client count = %d, want failing client dropped", h.ClientCount())
	}
	if brokenClient.State() != StateClosed {
		t.Errorf("broken client state = %v, want closed", brokenClient.State())
	}
}

func TestUnregisterIdempotent(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)

	h.Unregister(client)
	h.Unregister(client)
	if h.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", h.ClientCount())
	}
	if !conn.closed {
		t.Error("connection not closed on unregister")
	}
}

func TestRouteIgnoredWhenNotOpen(t *testing.T) {
	h := newTestHub(t)
	conn := &fakeConn{}
	client := h.Register(conn)
	h.Unregister(client)
	before := len(conn.types(t))

	msg, _ := json.Marshal(Envelope{Type: TypePing})
	h.Route(context.Background(), client, msg)
	if len(conn.types(t)) != before {
		t.Error("closed client must not be routable")
	}
}
