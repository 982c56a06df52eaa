package sensor

import (
	"time"

	"github.com/reiki-home/reiki-core/internal/location"
)

// Source tells where a reading came from.
type Source string

const (
	SourceSimulated Source = "simulated"
	SourceReal      Source = "real"
)

// Reading is one room's environmental snapshot.
type Reading struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	CO2         int       `json:"co2"`
	VOC         int       `json:"voc"`
	LightLevel  int       `json:"light_level"`
	Motion      bool      `json:"motion"`
	LastUpdate  time.Time `json:"last_update"`
	Source      Source    `json:"source"`
	DeviceID    string    `json:"device_id,omitempty"`
}

// SeedReadings returns the initial simulated reading for every room.
func SeedReadings(now time.Time) map[location.Location]Reading {
	seed := func(temp, hum float64, co2, voc, light int) Reading {
		return Reading{
			Temperature: temp,
			Humidity:    hum,
			CO2:         co2,
			VOC:         voc,
			LightLevel:  light,
			LastUpdate:  now,
			Source:      SourceSimulated,
		}
	}
	return map[location.Location]Reading{
		location.LivingRoom: seed(23.5, 55, 420, 15, 300),
		location.Bedroom:    seed(22.8, 58, 450, 12, 150),
		location.Kitchen:    seed(24.2, 62, 480, 25, 400),
		location.Study:      seed(23.1, 52, 430, 18, 350),
		location.Bathroom:   seed(24.8, 70, 400, 20, 200),
	}
}

// Merge overlays a real sensor payload onto prev. Only recognised fields are
// taken; absent fields keep their previous value. The result is marked as
// real data stamped at now.
func Merge(prev Reading, payload map[string]any, deviceID string, now time.Time) Reading {
	r := prev
	if v, ok := payloadFloat(payload, "temperature"); ok {
		r.Temperature = v
	}
	if v, ok := payloadFloat(payload, "humidity"); ok {
		r.Humidity = v
	}
	if v, ok := payloadFloat(payload, "co2"); ok {
		r.CO2 = int(v)
	}
	if v, ok := payloadFloat(payload, "voc"); ok {
		r.VOC = int(v)
	}
	if v, ok := payloadFloat(payload, "light_level"); ok {
		r.LightLevel = int(v)
	}
	if v, ok := payload["motion"].(bool); ok {
		r.Motion = v
	}
	if deviceID != "" {
		r.DeviceID = deviceID
	}
	r.Source = SourceReal
	r.LastUpdate = now
	return r
}

func payloadFloat(payload map[string]any, key string) (float64, bool) {
	switch v := payload[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
