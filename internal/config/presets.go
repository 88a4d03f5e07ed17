package config

import (
	"slices"

	"github.com/samber/lo"
)

// Presets are complete configurations. GetPreset hands out copies.
var Presets = map[string]func() *Config{
	"calm": DefaultConfig,
	"crosscurrent": func() *Config {
		c := DefaultConfig()
		c.Current = CurrentConfig{Kind: "constant", Y: 15}
		return c
	},
	"tidal": func() *Config {
		c := DefaultConfig()
		c.Current = CurrentConfig{
			Kind:         "sinusoidal",
			Amplitude:    20,
			DirectionDeg: 90,
			Wavelength:   400,
			Period:       12,
		}
		return c
	},
	"tight": func() *Config {
		c := DefaultConfig()
		c.Gate.WidthMin, c.Gate.WidthMax = 2, 2.5
		c.Gate.AngleDevMaxDeg = 45
		c.Sim.Tolerance = 5
		c.Limits.MaxSpeed = 80
		return c
	},
	"pursuit": func() *Config {
		c := DefaultConfig()
		c.Sim.Strategy = "purepursuit"
		c.Sim.RestSpeed = 0
		c.Limits.MaxSpeed = 60
		c.Pursuit.GoalTolerance = 20
		return c
	},
}

func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

func ListPresets() []string {
	names := lo.Keys(Presets)
	slices.Sort(names)
	return names
}
