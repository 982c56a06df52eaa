package mqtt

import "fmt"

// Topic prefixes for the Reiki MQTT namespace.
//
// Embedded sensor nodes publish inbound data under reiki/sensor/{location};
// the core publishes authoritative state under reiki/state/... so nodes and
// dashboards can mirror it without a websocket.
const (
	// TopicPrefix is the base for all Reiki topics.
	TopicPrefix = "reiki"

	// TopicPrefixState is the base for core-published state topics.
	TopicPrefixState = "reiki/state"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "reiki/system"
)

// Topics provides builders for Reiki MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	stateTopic := topics.DeviceState("ceiling_light", "living_room")
//	// Returns: "reiki/state/device/ceiling_light/living_room"
type Topics struct{}

// SensorData returns the topic a node publishes readings for one room to.
//
// Example: reiki/sensor/kitchen
func (Topics) SensorData(loc string) string {
	return fmt.Sprintf("%s/sensor/%s", TopicPrefix, loc)
}

// AllSensorData returns a pattern matching every room's sensor pushes.
//
// Pattern: reiki/sensor/+
func (Topics) AllSensorData() string {
	return fmt.Sprintf("%s/sensor/+", TopicPrefix)
}

// DeviceState returns the authoritative state topic for one device instance.
//
// Example: reiki/state/device/ceiling_light/living_room
func (Topics) DeviceState(deviceType, loc string) string {
	return fmt.Sprintf("%s/device/%s/%s", TopicPrefixState, deviceType, loc)
}

// AllDeviceStates returns a pattern matching every device state topic.
//
// Pattern: reiki/state/device/+/+
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/device/+/+", TopicPrefixState)
}

// SensorState returns the authoritative sensor-reading topic for one room.
//
// Example: reiki/state/sensors/kitchen
func (Topics) SensorState(loc string) string {
	return fmt.Sprintf("%s/sensors/%s", TopicPrefixState, loc)
}

// SystemStatus returns the system status topic, also used for the LWT.
//
// Example: reiki/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllTopics returns a pattern matching all Reiki topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: reiki/#
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
