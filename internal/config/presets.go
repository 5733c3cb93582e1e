package config

import "sort"

func preset(bt string, speed, load, modulus float64, ctl string, ticks int) *Config {
	cfg := DefaultConfig()
	cfg.Bearing.Type = bt
	cfg.Bearing.SpindleSpeed = speed
	cfg.Bearing.Load = load
	cfg.Bearing.YoungsModulus = modulus
	cfg.Controller.Name = ctl
	cfg.Run.Ticks = ticks
	return cfg
}

// Presets are keyed by bearing type, then by scenario name.
var Presets = map[string]map[string]*Config{
	"hybrid": {
		"nominal":    preset("Hybrid", 10000, 500, 380, "pid", 1000),
		"open-loop":  preset("Hybrid", 10000, 500, 380, "none", 1000),
		"soft-mount": preset("Hybrid", 8000, 400, 150, "pid", 2000),
	},
	"magnetic": {
		"nominal":    preset("Magnetic", 10000, 500, 300, "pid", 1000),
		"high-speed": preset("Magnetic", 20000, 300, 300, "pid", 2000),
	},
	"ceramic": {
		"nominal":    preset("Ceramic", 10000, 500, 380, "pid", 1000),
		"heavy-load": preset("Ceramic", 6000, 1000, 380, "pid", 2000),
		"idle":       preset("Ceramic", 500, 100, 380, "none", 500),
	},
}

func GetPreset(bearingType, name string) *Config {
	byName, ok := Presets[bearingType]
	if !ok {
		return nil
	}
	cfg, ok := byName[name]
	if !ok {
		return nil
	}
	copied := *cfg
	return &copied
}

func ListPresets(bearingType string) []string {
	byName, ok := Presets[bearingType]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
