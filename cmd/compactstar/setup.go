package main

import (
	"fmt"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/config"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/drivers"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/integrators"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/sim"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/state"
)

// setup is everything assembled from one config: the wired RHS, the flat
// initial state, and the run bounds.
type setup struct {
	cfg    *config.Config
	layout *engine.Layout
	rhs    *engine.RHS
	y0     []float64
	runCfg sim.Config
}

func newDriver(name string) (engine.Driver, error) {
	switch name {
	case "spindown":
		return drivers.NewSpindown(), nil
	case "cooling":
		return drivers.NewCooling(), nil
	case "chemical":
		return drivers.NewChemical(), nil
	case "exotic":
		return drivers.NewExoticParticle(), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}

// build wires registry, layout, accumulator, drivers, and context from the
// config. Blocks are registered for every tag some enabled driver updates,
// plus the tags those drivers read.
func build(cfg *config.Config) (*setup, error) {
	reg := engine.NewRegistry()
	var drvs []engine.Driver

	needed := make(map[engine.Tag]bool)
	for _, name := range cfg.Drivers {
		d, err := newDriver(name)
		if err != nil {
			return nil, err
		}
		drvs = append(drvs, d)
		for _, tag := range d.Updates() {
			needed[tag] = true
		}
		for _, tag := range d.DependsOn() {
			needed[tag] = true
		}
	}

	rot := state.NewRotation()
	rot.SetOmega(cfg.Init.Omega)
	th := state.NewThermal()
	th.SetTInf(cfg.Init.TInf)
	chem := state.NewChemical()
	chem.SetEtaNpe(cfg.Init.EtaNpe)
	chem.SetEtaNpmu(cfg.Init.EtaNpmu)
	exo := state.NewExotic()
	exo.SetAbundance(cfg.Init.Abundance)

	blocks := map[engine.Tag]engine.Block{
		engine.Spin:     rot,
		engine.Thermal:  th,
		engine.Chemical: chem,
		engine.Exotic:   exo,
	}

	var ordered []engine.Tag
	for _, tag := range engine.AllTags() {
		if needed[tag] {
			reg.Register(tag, blocks[tag])
			ordered = append(ordered, tag)
		}
	}

	layout := engine.NewLayout()
	if err := layout.Configure(reg, ordered); err != nil {
		return nil, err
	}

	acc := engine.NewAccumulator()
	for _, tag := range ordered {
		size, _ := layout.BlockSize(tag)
		if err := acc.Configure(tag, size); err != nil {
			return nil, err
		}
	}

	env, err := cfg.EnvelopeModel()
	if err != nil {
		return nil, err
	}
	ctx := &engine.Context{
		Structure: cfg.Structure(),
		Physics:   cfg.StarPhysics(),
		Envelope:  env,
	}

	rhs, err := engine.NewRHS(layout, reg, acc, drvs, ctx)
	if err != nil {
		return nil, err
	}

	y0 := make([]float64, layout.TotalSize())
	if err := engine.Pack(reg, layout, y0); err != nil {
		return nil, err
	}

	return &setup{
		cfg:    cfg,
		layout: layout,
		rhs:    rhs,
		y0:     y0,
		runCfg: sim.Config{
			T0:        0,
			TF:        cfg.Run.TFYears * config.SecondsPerYear,
			Dt:        cfg.Run.Dt,
			MaxDt:     cfg.Run.MaxDt,
			Tolerance: cfg.Run.Tolerance,
			MaxSteps:  cfg.Run.MaxSteps,
			RunID:     cfg.Run.RunID,
			Validate:  true,
		},
	}, nil
}

func (s *setup) integrator() (integrators.Integrator, error) {
	switch s.cfg.Run.Integrator {
	case "", "rk45":
		return integrators.NewRK45(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator %q", s.cfg.Run.Integrator)
	}
}
