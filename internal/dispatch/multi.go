package dispatch

import (
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// MultiBroadcaster fans one broadcast out to several sinks, typically the
// websocket hub and the MQTT node bridge.
type MultiBroadcaster []Broadcaster

func (m MultiBroadcaster) BroadcastDeviceUpdate(t device.Type, loc location.Location, state device.State) {
	for _, b := range m {
		b.BroadcastDeviceUpdate(t, loc, state)
	}
}

func (m MultiBroadcaster) BroadcastSensor(loc location.Location, r sensor.Reading) {
	for _, b := range m {
		b.BroadcastSensor(loc, r)
	}
}
