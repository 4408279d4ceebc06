package config

import (
	"sort"

	"github.com/san-kum/thermocycle/internal/gas"
)

var Presets = map[string]*Config{
	"otto_ideal": {
		Cycle: "otto", Gas: "ideal", Tau: 8, TMax: 2000,
	},
	"otto_vdw": {
		Cycle: "otto", Gas: "vdw", Tau: 8, TMax: 2000,
		A: gas.NitrogenA, B: gas.NitrogenB,
	},
	"diesel_ideal": {
		Cycle: "diesel", Gas: "ideal", Tau: 18, TMax: 2200,
	},
	"diesel_vdw": {
		Cycle: "diesel", Gas: "vdw", Tau: 18, TMax: 2200,
		A: gas.NitrogenA, B: gas.NitrogenB,
	},
}

// GetPreset returns the named preset layered over the defaults, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Cycle = p.Cycle
	cfg.Gas = p.Gas
	cfg.Tau = p.Tau
	cfg.TMax = p.TMax
	if p.A != 0 || p.B != 0 {
		cfg.A, cfg.B = p.A, p.B
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
