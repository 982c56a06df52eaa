// Package node bridges embedded sensor nodes to the coordination core
// over MQTT.
//
// Inbound: nodes publish JSON readings to reiki/sensor/{location}. The
// bridge funnels each payload through the dispatcher as a sensor
// data_update command, so node data takes the same serialised path as
// every other mutation and participates in the staleness model.
//
// Outbound: the bridge implements the dispatcher's Broadcaster and
// mirrors authoritative state to retained topics under reiki/state/...
// so nodes and dashboards can resynchronise after a reconnect without
// holding a websocket.
//
// The bridge subscribes only under reiki/sensor/ and publishes only
// under reiki/state/, so its own publishes never loop back.
package node
