package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
	"github.com/reiki-home/reiki-core/internal/sensor"
)

// WriteDeviceMetric records a device state change as a time-series point.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Numeric state fields become InfluxDB fields; the device identity and
// the action that caused the change become tags.
//
// Example:
//
//	client.WriteDeviceMetric(device.TypeCeilingLight, location.Kitchen,
//	    device.ActionSetBrightness, state)
func (c *Client) WriteDeviceMetric(t device.Type, loc location.Location, a device.Action, state device.State) {
	if !c.IsConnected() {
		return
	}

	fields := make(map[string]interface{}, len(state))
	for k, v := range state {
		switch val := v.(type) {
		case float64:
			fields[k] = val
		case int:
			fields[k] = float64(val)
		case bool:
			fields[k] = val
		case string:
			fields[k] = val
		}
	}
	if len(fields) == 0 {
		return
	}

	point := write.NewPoint(
		"device_state",
		map[string]string{
			"device_type": string(t),
			"location":    string(loc),
			"action":      string(a),
		},
		fields,
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSensorReading records one room's environmental reading.
//
// The source tag distinguishes real node data from simulated values so
// dashboards can filter either stream.
func (c *Client) WriteSensorReading(loc location.Location, r sensor.Reading) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"sensors",
		map[string]string{
			"location": string(loc),
			"source":   string(r.Source),
		},
		map[string]interface{}{
			"temperature": r.Temperature,
			"humidity":    r.Humidity,
			"co2":         r.CO2,
			"voc":         r.VOC,
			"light_level": r.LightLevel,
			"motion":      r.Motion,
		},
		r.LastUpdate,
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
//
// Example:
//
//	client.WritePoint("system_stats",
//	    map[string]string{"host": "core-01"},
//	    map[string]interface{}{"clients": 3})
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

// WritePointWithTime writes a custom point with a specific timestamp.
//
// Use this when the timestamp is not "now" (e.g., delayed node data).
func (c *Client) WritePointWithTime(measurement string, tags map[string]string, fields map[string]interface{}, timestamp time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, timestamp)
	c.writeAPI.WritePoint(point)
}
