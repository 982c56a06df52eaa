package scene

import (
	"github.com/reiki-home/reiki-core/internal/device"
	"github.com/reiki-home/reiki-core/internal/location"
)

// builtins is the scene table compiled into the binary. Steps are in
// execution order.
var builtins = []Scene{
	{
		Name:            "home_mode",
		Description:     "Welcome home: main light and cooling on",
		DefaultLocation: location.LivingRoom,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionOn,
				Parameters: map[string]any{"brightness": 70}},
			{Device: device.TypeAC, Action: device.ActionOn,
				Parameters: map[string]any{"temperature": 25}},
		},
	},
	{
		Name:            "sleep_mode",
		Description:     "Lights out and curtains closed for the night",
		DefaultLocation: location.Bedroom,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionOff},
			{Device: device.TypeDeskLamp, Action: device.ActionOff},
			{Device: device.TypeCurtain, Action: device.ActionClose},
		},
	},
	{
		Name:            "work_mode",
		Description:     "Bright task lighting",
		DefaultLocation: location.Study,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionOn,
				Parameters: map[string]any{"brightness": 90}},
			{Device: device.TypeDeskLamp, Action: device.ActionOn,
				Parameters: map[string]any{"brightness": 80}},
		},
	},
	{
		Name:            "movie_mode",
		Description:     "Dim the lights, shut out the daylight",
		DefaultLocation: location.LivingRoom,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionSetBrightness,
				Parameters: map[string]any{"brightness": 20}},
			{Device: device.TypeCurtain, Action: device.ActionClose},
		},
	},
	{
		Name:            "cooking_mode",
		Description:     "Full light and extraction in the kitchen",
		DefaultLocation: location.Kitchen,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionOn,
				Parameters: map[string]any{"brightness": 100}},
			{Device: device.TypeExhaustFan, Action: device.ActionOn},
		},
	},
	{
		Name:            "away_mode",
		Description:     "Shut the whole house down",
		DefaultLocation: location.LivingRoom,
		Steps: []Step{
			{Device: device.TypeCeilingLight, Action: device.ActionOff, Location: location.All},
			{Device: device.TypeDeskLamp, Action: device.ActionOff, Location: location.All},
			{Device: device.TypeFan, Action: device.ActionOff, Location: location.All},
			{Device: device.TypeExhaustFan, Action: device.ActionOff, Location: location.All},
			{Device: device.TypeAC, Action: device.ActionOff, Location: location.All},
			{Device: device.TypeCurtain, Action: device.ActionClose, Location: location.All},
		},
	},
}
