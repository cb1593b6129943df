// Package config loads and saves run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
)

const (
	DefaultTFYears   = 1000.0
	DefaultDt        = 1e4
	DefaultMaxDt     = 1e9
	DefaultTolerance = 1e-8
	DefaultMaxSteps  = 2_000_000
	DefaultOmega0    = 100.0
	DefaultTInf0     = 1e9

	SecondsPerYear = 3.15576e7
)

type Config struct {
	Run      RunConfig     `yaml:"run"`
	Star     StarConfig    `yaml:"star"`
	Physics  PhysicsConfig `yaml:"physics"`
	Envelope string        `yaml:"envelope"` // "iron" or "none"
	Drivers  []string      `yaml:"drivers"`
	Init     InitConfig    `yaml:"init_state"`
	Output   OutputConfig  `yaml:"output"`
}

type RunConfig struct {
	RunID      string  `yaml:"run_id"`
	TFYears    float64 `yaml:"tf_years"`
	Dt         float64 `yaml:"dt"`
	MaxDt      float64 `yaml:"max_dt"`
	Tolerance  float64 `yaml:"tolerance"`
	MaxSteps   int     `yaml:"max_steps"`
	Integrator string  `yaml:"integrator"` // "rk45" or "rk4"
}

type StarConfig struct {
	MassMsun        float64 `yaml:"mass_msun"`
	RadiusKm        float64 `yaml:"radius_km"`
	MomentOfInertia float64 `yaml:"moment_of_inertia"`
	HeatCapCoeff    float64 `yaml:"heat_cap_coeff"`
}

type PhysicsConfig struct {
	SpindownK        float64 `yaml:"spindown_k"`
	BrakingIndex     float64 `yaml:"braking_index"`
	UrcaNorm         float64 `yaml:"urca_norm"`
	ChemTau0         float64 `yaml:"chem_tau0"`
	ChemSpinCoeff    float64 `yaml:"chem_spin_coeff"`
	ExoticThresholdT float64 `yaml:"exotic_threshold_t"`
	ExoticProduction float64 `yaml:"exotic_production"`
	ExoticDecay      float64 `yaml:"exotic_decay"`
}

type InitConfig struct {
	Omega     float64 `yaml:"omega"`
	TInf      float64 `yaml:"t_inf"`
	EtaNpe    float64 `yaml:"eta_npe"`
	EtaNpmu   float64 `yaml:"eta_npmu"`
	Abundance float64 `yaml:"exotic_abundance"`
}

type OutputConfig struct {
	Diagnostics  string   `yaml:"diagnostics"`
	TimeSeries   string   `yaml:"timeseries"`
	Sidecar      string   `yaml:"sidecar"`
	Columns      []string `yaml:"columns"`
	Profile      string   `yaml:"profile"`
	Delimiter    string   `yaml:"delimiter"` // "csv" or "tsv"
	Precision    int      `yaml:"precision"`
	EverySamples int      `yaml:"every_samples"`
	EveryTime    float64  `yaml:"every_time"`
}

func DefaultConfig() *Config {
	phys := star.DefaultPhysics()
	return &Config{
		Run: RunConfig{
			RunID:      "run",
			TFYears:    DefaultTFYears,
			Dt:         DefaultDt,
			MaxDt:      DefaultMaxDt,
			Tolerance:  DefaultTolerance,
			MaxSteps:   DefaultMaxSteps,
			Integrator: "rk45",
		},
		Star: StarConfig{
			MassMsun:        1.4,
			RadiusKm:        12.0,
			MomentOfInertia: 1.36e45,
			HeatCapCoeff:    1.0e39,
		},
		Physics: PhysicsConfig{
			SpindownK:        phys.SpindownK,
			BrakingIndex:     phys.BrakingIndex,
			UrcaNorm:         phys.UrcaNorm,
			ChemTau0:         phys.ChemTau0,
			ChemSpinCoeff:    phys.ChemSpinCoeff,
			ExoticThresholdT: phys.ExoticThresholdT,
			ExoticProduction: phys.ExoticProduction,
			ExoticDecay:      phys.ExoticDecay,
		},
		Envelope: "iron",
		Drivers:  []string{"spindown", "cooling", "chemical"},
		Init: InitConfig{
			Omega: DefaultOmega0,
			TInf:  DefaultTInf0,
		},
		Output: OutputConfig{
			Diagnostics:  "diagnostics.jsonl",
			TimeSeries:   "timeseries.csv",
			Sidecar:      "timeseries.meta.json",
			Delimiter:    "csv",
			Precision:    -1,
			EverySamples: 10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Structure materializes the background geometry from the config.
func (c *Config) Structure() *star.Structure {
	return &star.Structure{
		Mass:             c.Star.MassMsun * star.SolarMass,
		Radius:           c.Star.RadiusKm * 1e5,
		MomentOfInertia:  c.Star.MomentOfInertia,
		CoreHeatCapCoeff: c.Star.HeatCapCoeff,
	}
}

// StarPhysics materializes the driver tunables from the config.
func (c *Config) StarPhysics() *star.Physics {
	return &star.Physics{
		SpindownK:        c.Physics.SpindownK,
		BrakingIndex:     c.Physics.BrakingIndex,
		UrcaNorm:         c.Physics.UrcaNorm,
		ChemTau0:         c.Physics.ChemTau0,
		ChemSpinCoeff:    c.Physics.ChemSpinCoeff,
		ExoticThresholdT: c.Physics.ExoticThresholdT,
		ExoticProduction: c.Physics.ExoticProduction,
		ExoticDecay:      c.Physics.ExoticDecay,
	}
}

// EnvelopeModel returns the configured envelope, nil for "none".
func (c *Config) EnvelopeModel() (star.Envelope, error) {
	switch c.Envelope {
	case "", "none":
		return nil, nil
	case "iron":
		return star.IronEnvelope{}, nil
	default:
		return nil, fmt.Errorf("config: unknown envelope %q", c.Envelope)
	}
}
