package hub

import (
	"github.com/reiki-home/reiki-core/internal/command"
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
)

// Inbound message types.
const (
	TypeControl      = "control"
	TypeSceneCommand = "scene_command"
	TypeSensorUpdate = "sensor_update"
	TypeGetSensors   = "get_sensors"
	TypeRegistration = "device_registration"
	TypePing         = "ping"
)

// Outbound message types.
const (
	TypeInit           = "init"
	TypeControlResults = "control_results"
	TypeSceneResults   = "scene_results"
	TypeDeviceUpdate   = "device_update"
	TypeSensorData     = "sensor_data"
	TypeAllSensors     = "all_sensors"
	TypePong           = "pong"
	TypeError          = "error"
)

// Envelope is the common inbound frame. Fields beyond Type are filled
// depending on the discriminator.
type Envelope struct {
	Type string `json:"type"`

	// control
	Commands []command.Command `json:"commands,omitempty"`

	// scene_command
	Scene string `json:"scene,omitempty"`

	// scene_command, sensor_update, get_sensors
	Location location.Location `json:"location,omitempty"`

	// sensor_update
	Sensors   map[string]any `json:"sensors,omitempty"`
	Timestamp float64        `json:"timestamp,omitempty"`

	// device_registration
	DeviceInfo map[string]any `json:"device_info,omitempty"`
}

// initEvent is sent once to every client right after registration.
type initEvent struct {
	Type    string                                             `json:"type"`
	Devices map[device.Type]map[location.Location]device.State `json:"devices"`
	Sensors any                                                `json:"sensors"`
}

type resultsEvent struct {
	Type    string           `json:"type"`
	Scene   string           `json:"scene,omitempty"`
	Results []command.Result `json:"results"`
}

type deviceUpdateEvent struct {
	Type     string            `json:"type"`
	Device   device.Type       `json:"device"`
	Location location.Location `json:"location"`
	State    device.State      `json:"state"`
}

type sensorUpdateEvent struct {
	Type     string            `json:"type"`
	Location location.Location `json:"location"`
	Sensors  any               `json:"sensors"`
}

type errorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongEvent struct {
	Type string `json:"type"`
}
