package config

// Presets are ready-made run configurations selectable by name from the CLI.
// Each starts from DefaultConfig and overrides what the scenario needs.
var Presets = map[string]func() *Config{
	"classical": func() *Config {
		return DefaultConfig()
	},
	"magnetar": func() *Config {
		c := DefaultConfig()
		c.Run.RunID = "magnetar"
		c.Physics.SpindownK = 1e-11
		c.Init.Omega = 60.0
		c.Init.TInf = 3e9
		return c
	},
	"cooling-only": func() *Config {
		c := DefaultConfig()
		c.Run.RunID = "cooling-only"
		c.Drivers = []string{"cooling"}
		c.Run.TFYears = 1e5
		return c
	},
	"rotochemical": func() *Config {
		c := DefaultConfig()
		c.Run.RunID = "rotochemical"
		c.Drivers = []string{"spindown", "cooling", "chemical"}
		c.Init.Omega = 500.0
		c.Init.EtaNpe = 1e-5
		c.Init.EtaNpmu = 1e-5
		return c
	},
	"exotic": func() *Config {
		c := DefaultConfig()
		c.Run.RunID = "exotic"
		c.Drivers = []string{"spindown", "cooling", "chemical", "exotic"}
		c.Init.TInf = 2e9
		return c
	},
}
