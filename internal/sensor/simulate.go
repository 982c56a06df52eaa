package sensor

import (
	"math"
	"math/rand"
	"time"

	"github.com/reiki-home/reiki-core/internal/device"
)

// Advance computes the next simulated reading from prev. Temperature drifts
// towards a time-of-day target, light level follows a dawn/day/dusk/night
// curve with a weather factor, and the gas readings wander inside fixed
// bands. Motion is handled by the Simulator, not here.
func Advance(prev Reading, now time.Time, rng *rand.Rand) Reading {
	r := prev
	hour := now.Hour()

	var targetTemp float64
	if hour >= 6 && hour <= 18 {
		targetTemp = 24 + uniform(rng, -1, 2)
	} else {
		targetTemp = 22 + uniform(rng, -1, 1)
	}
	r.Temperature = math.Round((prev.Temperature+(targetTemp-prev.Temperature)*0.1)*10) / 10

	r.Humidity = clampF(prev.Humidity+uniform(rng, -2, 2), 40, 80)

	baseCO2 := 450.0
	if hour >= 22 || hour <= 6 {
		baseCO2 = 400
	}
	r.CO2 = int(clampF(baseCO2+uniform(rng, -20, 40), 350, 1000))

	r.VOC = int(clampF(float64(prev.VOC)+uniform(rng, -2, 3), 5, 50))

	switch {
	case hour >= 6 && hour <= 8:
		r.LightLevel = int(200 + float64(hour)*50 + uniform(rng, -50, 50))
	case hour > 8 && hour <= 17:
		base := 500 + uniform(rng, -100, 200)
		weather := []float64{0.7, 0.8, 0.9, 1.0, 1.1}[rng.Intn(5)]
		r.LightLevel = int(base * weather)
	case hour > 17 && hour <= 20:
		r.LightLevel = int(math.Max(50, 400-float64(hour-17)*80+uniform(rng, -30, 30)))
	default:
		r.LightLevel = int(math.Max(10, 50+uniform(rng, -20, 20)))
	}

	r.Source = SourceSimulated
	r.LastUpdate = now
	return r
}

// ApplyDeviceImpact adjusts a simulated reading to reflect a device state
// change in the same room. Real data is never touched; the registry gates
// that before calling.
func ApplyDeviceImpact(r Reading, t device.Type, state device.State) Reading {
	status, _ := state[device.FieldStatus].(string)

	switch t {
	case device.TypeCeilingLight, device.TypeDeskLamp:
		if status == device.StatusOn {
			brightness := numeric(state[device.FieldBrightness], 50)
			r.LightLevel = int(math.Min(1000, float64(r.LightLevel)+brightness*5))
			r.Temperature = math.Min(35, r.Temperature+brightness*0.01)
		} else {
			r.LightLevel = int(math.Max(0, float64(r.LightLevel)-200))
		}
	case device.TypeAC:
		if status == device.StatusOn {
			target := numeric(state[device.FieldTemperature], 25)
			switch {
			case r.Temperature > target:
				r.Temperature = math.Max(target, r.Temperature-0.5)
			case r.Temperature < target:
				r.Temperature = math.Min(target, r.Temperature+0.5)
			}
		}
	case device.TypeExhaustFan:
		if status == device.StatusOn {
			r.Humidity = math.Max(30, r.Humidity-5)
			r.VOC = int(math.Max(5, float64(r.VOC)-3))
			r.CO2 = int(math.Max(350, float64(r.CO2)-20))
		}
	case device.TypeFan:
		if status == device.StatusOn {
			speed := numeric(state[device.FieldSpeed], 1)
			r.Temperature = math.Max(16, r.Temperature-speed*0.3)
		}
	case device.TypeCurtain:
		position := numeric(state[device.FieldPosition], 0)
		if position > 50 {
			r.LightLevel = int(math.Min(800, float64(r.LightLevel)+150))
		} else {
			r.LightLevel = int(math.Max(50, float64(r.LightLevel)-100))
		}
	}
	return r
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clampF(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func numeric(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return fallback
	}
}
