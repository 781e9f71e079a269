package config

import "sort"

var presets = map[string]func() *Config{
	"pendulum": func() *Config { return Chain(1, 3) },
	"double":   func() *Config { return Chain(2, 3) },
	"chain5":   func() *Config { return Chain(5, 3) },
	"chain10":  func() *Config { return Chain(10, 3) },
	"swing": func() *Config {
		cfg := Chain(1, 45)
		cfg.Name = "swing"
		cfg.Duration = 20
		return cfg
	},
}

// GetPreset returns a fresh copy of the named preset, or nil if unknown.
func GetPreset(name string) *Config {
	mk, ok := presets[name]
	if !ok {
		return nil
	}
	return mk()
}

// ListPresets returns the available preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
