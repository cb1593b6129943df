package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Run.Integrator != "rk45" {
		t.Errorf("integrator = %q, want rk45", cfg.Run.Integrator)
	}
	if cfg.Run.TFYears != DefaultTFYears {
		t.Errorf("tf_years = %v, want %v", cfg.Run.TFYears, DefaultTFYears)
	}
	if cfg.Envelope != "iron" {
		t.Errorf("envelope = %q, want iron", cfg.Envelope)
	}
	if len(cfg.Drivers) == 0 {
		t.Error("default config has no drivers")
	}
	if cfg.Init.Omega != DefaultOmega0 || cfg.Init.TInf != DefaultTInf0 {
		t.Errorf("init state = %+v", cfg.Init)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Run.RunID = "round-trip"
	cfg.Run.TFYears = 42
	cfg.Physics.SpindownK = 3e-14
	cfg.Drivers = []string{"spindown", "exotic"}
	cfg.Output.Columns = []string{"time", "omega"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Run.RunID != "round-trip" {
		t.Errorf("run_id = %q", loaded.Run.RunID)
	}
	if loaded.Run.TFYears != 42 {
		t.Errorf("tf_years = %v, want 42", loaded.Run.TFYears)
	}
	if loaded.Physics.SpindownK != 3e-14 {
		t.Errorf("spindown_k = %v, want 3e-14", loaded.Physics.SpindownK)
	}
	if len(loaded.Drivers) != 2 || loaded.Drivers[1] != "exotic" {
		t.Errorf("drivers = %v", loaded.Drivers)
	}
	if len(loaded.Output.Columns) != 2 || loaded.Output.Columns[1] != "omega" {
		t.Errorf("columns = %v", loaded.Output.Columns)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	// A partial file keeps defaults for everything it does not mention.
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "run:\n  run_id: partial\n  tf_years: 7\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Run.RunID != "partial" || cfg.Run.TFYears != 7 {
		t.Errorf("overrides not applied: %+v", cfg.Run)
	}
	if cfg.Run.Tolerance != DefaultTolerance {
		t.Errorf("tolerance = %v, want default %v", cfg.Run.Tolerance, DefaultTolerance)
	}
	if cfg.Envelope != "iron" {
		t.Errorf("envelope = %q, want default iron", cfg.Envelope)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("run: [unclosed"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestStructureConversion(t *testing.T) {
	cfg := DefaultConfig()
	s := cfg.Structure()
	if s.Radius != 12.0*1e5 {
		t.Errorf("radius = %v cm, want 1.2e6", s.Radius)
	}
	if s.Mass <= 0 {
		t.Errorf("mass = %v, want positive", s.Mass)
	}
	if s.MomentOfInertia != cfg.Star.MomentOfInertia {
		t.Errorf("moment of inertia = %v", s.MomentOfInertia)
	}
}

func TestEnvelopeModel(t *testing.T) {
	tests := []struct {
		name    string
		wantNil bool
		wantErr bool
	}{
		{"iron", false, false},
		{"none", true, false},
		{"", true, false},
		{"carbon", true, true},
	}
	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Envelope = tt.name
		env, err := cfg.EnvelopeModel()
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if (env == nil) != tt.wantNil {
			t.Errorf("%q: env = %v, wantNil %v", tt.name, env, tt.wantNil)
		}
	}
}

func TestPresets(t *testing.T) {
	for name, build := range Presets {
		cfg := build()
		if cfg == nil {
			t.Fatalf("preset %q returned nil", name)
		}
		if len(cfg.Drivers) == 0 {
			t.Errorf("preset %q has no drivers", name)
		}
		if cfg.Run.TFYears <= 0 || cfg.Run.Dt <= 0 {
			t.Errorf("preset %q has unusable run bounds: %+v", name, cfg.Run)
		}
	}

	if Presets["magnetar"]().Physics.SpindownK <= Presets["classical"]().Physics.SpindownK {
		t.Error("magnetar preset should brake harder than classical")
	}
	if got := Presets["cooling-only"]().Drivers; len(got) != 1 || got[0] != "cooling" {
		t.Errorf("cooling-only drivers = %v", got)
	}
}
