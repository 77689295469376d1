package config

import (
	"math"
	"sort"
)

var Presets = map[string]*Config{
	"pair": {
		Name: "pair", G: DefaultG, Dt: 0.01, Duration: 20.0,
		MinSeparation: 1e-9, Collisions: true, Integrator: "euler", TrailCapacity: DefaultTrailCapacity,
		Bodies: []BodyConfig{
			{X: 0, Y: 0, VX: 20, VY: 5, Radius: 5, Mass: 5, Member: true},
			{X: 800, Y: 0, VX: -20, VY: 5, Radius: 5, Mass: 5, Member: true},
		},
	},
	"slingshot": {
		Name: "slingshot", G: DefaultG, Dt: 0.001, Duration: 5.0,
		MinSeparation: 1e-9, Collisions: true, Integrator: "euler", TrailCapacity: DefaultTrailCapacity,
		Bodies: []BodyConfig{
			{X: 100, Y: 100, VX: 0, VY: 300, Radius: 5, Mass: 5, Member: true},
			{X: 200, Y: 100, VX: 0, VY: -300, Radius: 5, Mass: 5, Member: true},
			{X: 150, Y: 100, Radius: 5, Mass: 500},
		},
	},
	"headon": {
		Name: "headon", G: 0, Dt: 0.01, Duration: 5.0,
		MinSeparation: 1e-9, Collisions: true, Integrator: "euler", TrailCapacity: DefaultTrailCapacity,
		Bodies: []BodyConfig{
			{X: -100, Y: 0, VX: 40, VY: 0, Radius: 10, Mass: 5, Member: true},
			{X: 100, Y: 0, VX: -40, VY: 0, Radius: 10, Mass: 5, Member: true},
		},
	},
	"cluster": ringPreset("cluster", 8, 200, 40),
}

// ringPreset places n members evenly on a circle with tangential velocity.
func ringPreset(name string, n int, radius, speed float64) *Config {
	cfg := &Config{
		Name: name, G: DefaultG, Dt: 0.005, Duration: 20.0,
		MinSeparation: 1e-9, Collisions: true, Integrator: "euler", TrailCapacity: DefaultTrailCapacity,
	}
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			X:      radius * math.Cos(a),
			Y:      radius * math.Sin(a),
			VX:     -speed * math.Sin(a),
			VY:     speed * math.Cos(a),
			Radius: 5,
			Mass:   5,
			Member: true,
		})
	}
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
