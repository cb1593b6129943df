package drivers

import (
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

// ExoticParticle evolves an exotic-particle abundance: thermally gated
// production above the threshold temperature, exponential decay always.
type ExoticParticle struct{}

func NewExoticParticle() *ExoticParticle { return &ExoticParticle{} }

func (*ExoticParticle) Name() string { return "exotic" }

func (*ExoticParticle) DependsOn() []engine.Tag {
	return []engine.Tag{engine.Exotic, engine.Thermal}
}

func (*ExoticParticle) Updates() []engine.Tag {
	return []engine.Tag{engine.Exotic}
}

func (d *ExoticParticle) AccumulateRHS(t float64, st *engine.Registry, acc *engine.Accumulator, ctx *engine.Context) error {
	y, ok := readExotic(st)
	if !ok || !isFinite(y) {
		return nil
	}

	rate := -ctx.Physics.ExoticDecay * y
	// Production needs a physical temperature; without one only decay runs.
	if T, hasT := readThermal(st); hasT && isFinite(T) && T > ctx.Physics.ExoticThresholdT {
		rate += ctx.Physics.ExoticProduction
	}
	return acc.AddTo(engine.Exotic, 0, rate)
}

func (*ExoticParticle) DiagnosticsName() string { return "driver.exotic" }

func (*ExoticParticle) UnitContract() []string {
	return []string{"abundance dimensionless, rates in 1/s"}
}

func (d *ExoticParticle) DescribeScalars(c *diag.Catalog) {
	name := d.DiagnosticsName()
	for _, line := range d.UnitContract() {
		c.AddContractLine(name, line)
	}
	c.AddScalar(name, diag.Descriptor{
		Key: "abundance", Unit: "",
		Description: "exotic-particle abundance fraction",
		Source:      "state.exotic", Required: true, Dimensionless: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "production_active", Unit: "",
		Description:    "1 while T exceeds the production threshold",
		Source:         "exotic.AccumulateRHS",
		DefaultCadence: diag.OnChange, Dimensionless: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "threshold_t", Unit: "K",
		Description:    "production threshold temperature",
		Source:         "physics.config",
		DefaultCadence: diag.OncePerRun,
	})
	c.AddProfile(name, diag.Profile{
		Name: "exotic",
		Keys: []string{"abundance", "production_active"},
	})
}

func (d *ExoticParticle) DiagnoseSnapshot(t float64, st *engine.Registry, ctx *engine.Context, p *diag.Packet) {
	name := d.DiagnosticsName()
	y, has := readExotic(st)
	if !has {
		p.AddError("exotic block not registered")
		return
	}

	active := false
	if T, hasT := readThermal(st); hasT && isFinite(T) {
		active = T > ctx.Physics.ExoticThresholdT
	}

	p.AddScalar("abundance", y, "", "exotic-particle abundance fraction", name)
	p.AddScalar("production_active", boolScalar(active), "",
		"1 while T exceeds the production threshold", name, diag.OnChange)
	p.AddScalar("threshold_t", ctx.Physics.ExoticThresholdT, "K",
		"production threshold temperature", name, diag.OncePerRun)
}
