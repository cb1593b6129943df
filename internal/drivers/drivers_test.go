package drivers

import (
	"math"
	"testing"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/state"
)

type fixture struct {
	reg *engine.Registry
	acc *engine.Accumulator
	ctx *engine.Context

	rot  *state.Rotation
	th   *state.Thermal
	chem *state.Chemical
	exo  *state.Exotic
}

// newFixture registers blocks and configures accumulator buffers for the
// given tags only.
func newFixture(t *testing.T, tags ...engine.Tag) *fixture {
	t.Helper()
	f := &fixture{
		reg:  engine.NewRegistry(),
		acc:  engine.NewAccumulator(),
		rot:  state.NewRotation(),
		th:   state.NewThermal(),
		chem: state.NewChemical(),
		exo:  state.NewExotic(),
		ctx: &engine.Context{
			Structure: star.Canonical(),
			Physics:   star.DefaultPhysics(),
		},
	}
	blocks := map[engine.Tag]engine.Block{
		engine.Spin:     f.rot,
		engine.Thermal:  f.th,
		engine.Chemical: f.chem,
		engine.Exotic:   f.exo,
	}
	for _, tag := range tags {
		f.reg.Register(tag, blocks[tag])
		if err := f.acc.Configure(tag, blocks[tag].Size()); err != nil {
			t.Fatalf("configure %s: %v", tag, err)
		}
	}
	return f
}

func (f *fixture) accValue(t *testing.T, tag engine.Tag, i int) float64 {
	t.Helper()
	buf, err := f.acc.Block(tag)
	if err != nil {
		t.Fatalf("block %s: %v", tag, err)
	}
	return buf[i]
}

func TestSpindownTorque(t *testing.T) {
	f := newFixture(t, engine.Spin)
	f.rot.SetOmega(100)

	d := NewSpindown()
	if err := d.AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	want := -f.ctx.Physics.SpindownK * math.Pow(100, 3)
	if got := f.accValue(t, engine.Spin, 0); got != want {
		t.Errorf("dOmega/dt = %v, want %v", got, want)
	}
}

func TestSpindownDegenerateInputs(t *testing.T) {
	tests := []struct {
		name  string
		omega float64
	}{
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"zero", 0},
		{"negative", -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, engine.Spin)
			f.rot.SetOmega(tt.omega)

			if err := NewSpindown().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
				t.Fatalf("degenerate input must not error: %v", err)
			}
			if got := f.accValue(t, engine.Spin, 0); got != 0 {
				t.Errorf("contribution = %v, want 0 (skipped)", got)
			}
		})
	}
}

func TestSpindownMissingBlock(t *testing.T) {
	f := newFixture(t) // nothing registered
	if err := NewSpindown().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Errorf("missing block should skip, got %v", err)
	}
}

func TestCoolingWithoutEnvelope(t *testing.T) {
	f := newFixture(t, engine.Thermal)
	f.th.SetTInf(1e9)

	if err := NewCooling().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	got := f.accValue(t, engine.Thermal, 0)
	wantNu := -f.ctx.Physics.UrcaNorm / f.ctx.Structure.HeatCapacity(1e9)
	if got != wantNu {
		t.Errorf("neutrino-only dT/dt = %v, want %v", got, wantNu)
	}
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Error("missing optional envelope must not produce non-finite output")
	}
}

func TestCoolingWithEnvelopeRunsFaster(t *testing.T) {
	bare := newFixture(t, engine.Thermal)
	bare.th.SetTInf(1e9)
	if err := NewCooling().AccumulateRHS(0, bare.reg, bare.acc, bare.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	wrapped := newFixture(t, engine.Thermal)
	wrapped.th.SetTInf(1e9)
	wrapped.ctx.Envelope = star.IronEnvelope{}
	if err := NewCooling().AccumulateRHS(0, wrapped.reg, wrapped.acc, wrapped.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	if wrapped.accValue(t, engine.Thermal, 0) >= bare.accValue(t, engine.Thermal, 0) {
		t.Error("photon channel should make cooling strictly faster")
	}
}

func TestCoolingDegenerateTemperature(t *testing.T) {
	for _, T := range []float64{0, -1, math.NaN()} {
		f := newFixture(t, engine.Thermal)
		f.th.SetTInf(T)
		if err := NewCooling().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
			t.Fatalf("T=%v must not error: %v", T, err)
		}
		if got := f.accValue(t, engine.Thermal, 0); got != 0 {
			t.Errorf("T=%v: contribution = %v, want 0", T, got)
		}
	}
}

func TestChemicalRelaxationAndHeating(t *testing.T) {
	f := newFixture(t, engine.Chemical, engine.Thermal)
	f.th.SetTInf(1e9)
	f.chem.SetEtaNpe(2e-3)
	f.chem.SetEtaNpmu(-1e-3)

	if err := NewChemical().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	tau := f.ctx.Physics.ChemTau0 // (1e9/T)^6 == 1 at T=1e9
	if got, want := f.accValue(t, engine.Chemical, 0), -2e-3/tau; math.Abs(got-want) > 1e-20 {
		t.Errorf("d(eta_npe)/dt = %v, want %v", got, want)
	}
	if got, want := f.accValue(t, engine.Chemical, 1), 1e-3/tau; math.Abs(got-want) > 1e-20 {
		t.Errorf("d(eta_npmu)/dt = %v, want %v", got, want)
	}
	if got := f.accValue(t, engine.Thermal, 0); got <= 0 {
		t.Errorf("relaxation heating = %v, want positive", got)
	}
}

func TestChemicalSpinForcing(t *testing.T) {
	quiet := newFixture(t, engine.Chemical, engine.Thermal)
	quiet.th.SetTInf(1e9)
	if err := NewChemical().AccumulateRHS(0, quiet.reg, quiet.acc, quiet.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	spinning := newFixture(t, engine.Chemical, engine.Thermal, engine.Spin)
	spinning.th.SetTInf(1e9)
	spinning.rot.SetOmega(500)
	if err := NewChemical().AccumulateRHS(0, spinning.reg, spinning.acc, spinning.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	if spinning.accValue(t, engine.Chemical, 0) <= quiet.accValue(t, engine.Chemical, 0) {
		t.Error("spin-down compression should force the imbalance upward")
	}
}

func TestChemicalMissingThermalSkips(t *testing.T) {
	f := newFixture(t, engine.Chemical)
	f.chem.SetEtaNpe(1e-3)
	if err := NewChemical().AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Fatalf("missing thermal must skip, got %v", err)
	}
	if got := f.accValue(t, engine.Chemical, 0); got != 0 {
		t.Errorf("contribution = %v, want 0", got)
	}
}

func TestExoticProductionGate(t *testing.T) {
	hot := newFixture(t, engine.Exotic, engine.Thermal)
	hot.th.SetTInf(hot.ctx.Physics.ExoticThresholdT * 2)
	if err := NewExoticParticle().AccumulateRHS(0, hot.reg, hot.acc, hot.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}
	if got := hot.accValue(t, engine.Exotic, 0); got != hot.ctx.Physics.ExoticProduction {
		t.Errorf("hot production rate = %v, want %v", got, hot.ctx.Physics.ExoticProduction)
	}

	cold := newFixture(t, engine.Exotic, engine.Thermal)
	cold.th.SetTInf(cold.ctx.Physics.ExoticThresholdT / 2)
	cold.exo.SetAbundance(0.5)
	if err := NewExoticParticle().AccumulateRHS(0, cold.reg, cold.acc, cold.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}
	if got, want := cold.accValue(t, engine.Exotic, 0), -cold.ctx.Physics.ExoticDecay*0.5; got != want {
		t.Errorf("cold decay rate = %v, want %v", got, want)
	}
}

func TestDiagnoseSnapshotMatchesRHS(t *testing.T) {
	f := newFixture(t, engine.Spin)
	f.rot.SetOmega(100)

	d := NewSpindown()
	if err := d.AccumulateRHS(0, f.reg, f.acc, f.ctx); err != nil {
		t.Fatalf("accumulate failed: %v", err)
	}

	p := diag.NewPacket(d.DiagnosticsName(), 0, 0)
	d.DiagnoseSnapshot(0, f.reg, f.ctx, p)

	s, ok := p.Scalar("omega_dot")
	if !ok {
		t.Fatal("snapshot missing omega_dot")
	}
	if got := f.accValue(t, engine.Spin, 0); s.Value != got {
		t.Errorf("diagnosed omega_dot %v != applied contribution %v", s.Value, got)
	}
	if okFlag, _ := p.Scalar("ok"); okFlag.Value != 1 {
		t.Errorf("ok = %v, want 1", okFlag.Value)
	}
}

func TestDiagnoseSnapshotDegenerate(t *testing.T) {
	f := newFixture(t, engine.Spin)
	f.rot.SetOmega(math.NaN())

	d := NewSpindown()
	p := diag.NewPacket(d.DiagnosticsName(), 0, 0)
	d.DiagnoseSnapshot(0, f.reg, f.ctx, p)

	if okFlag, _ := p.Scalar("ok"); okFlag.Value != 0 {
		t.Errorf("ok = %v, want 0 for degenerate state", okFlag.Value)
	}
	if len(p.Warnings()) == 0 {
		t.Error("degenerate snapshot should carry a warning")
	}
}

func TestCatalogCoversEmittedScalars(t *testing.T) {
	diagnosers := []engine.Diagnoser{
		NewSpindown(), NewCooling(), NewChemical(), NewExoticParticle(),
	}

	f := newFixture(t, engine.Spin, engine.Thermal, engine.Chemical, engine.Exotic)
	f.rot.SetOmega(100)
	f.th.SetTInf(1e9)
	f.ctx.Envelope = star.IronEnvelope{}

	for _, dg := range diagnosers {
		c := diag.NewCatalog()
		dg.DescribeScalars(c)
		prod, ok := c.Producer(dg.DiagnosticsName())
		if !ok {
			t.Fatalf("%s: no catalog entry", dg.DiagnosticsName())
		}

		p := diag.NewPacket(dg.DiagnosticsName(), 0, 0)
		dg.DiagnoseSnapshot(0, f.reg, f.ctx, p)
		for _, key := range p.Keys() {
			if _, ok := prod.Descriptor(key); !ok {
				t.Errorf("%s emits %q but does not declare it", dg.DiagnosticsName(), key)
			}
		}
	}
}
