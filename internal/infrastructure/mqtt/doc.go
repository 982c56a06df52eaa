// Package mqtt provides MQTT client connectivity for Reiki Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Reiki uses MQTT to talk to embedded sensor nodes. Nodes publish their
// readings under reiki/sensor/{location}; the core mirrors authoritative
// device and sensor state under reiki/state/... so nodes and dashboards
// can follow along without holding a websocket.
//
//	Reiki Core ↔ MQTT Broker ↔ Sensor Nodes
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all sensor pushes
//	err = client.Subscribe(mqtt.Topics{}.AllSensorData(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Mirror device state
//	topic := mqtt.Topics{}.DeviceState("ceiling_light", "living_room")
//	client.Publish(topic, []byte(`{"status":"on"}`), 1, true)
package mqtt
