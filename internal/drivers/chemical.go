package drivers

import (
	"math"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
)

// Chemical evolves the npe and npmu imbalances: relaxation toward beta
// equilibrium on the temperature-dependent timescale tau(T), forcing from
// spin-down compression when rotation is active, and the matching dissipative
// heating fed back into the thermal state.
type Chemical struct{}

func NewChemical() *Chemical { return &Chemical{} }

func (*Chemical) Name() string { return "chemical" }

func (*Chemical) DependsOn() []engine.Tag {
	return []engine.Tag{engine.Chemical, engine.Thermal, engine.Spin}
}

func (*Chemical) Updates() []engine.Tag {
	return []engine.Tag{engine.Chemical, engine.Thermal}
}

// relaxationTime is tau(T) = tau0 * (1e9 K / T)^6.
func relaxationTime(T float64, phys *star.Physics) float64 {
	return phys.ChemTau0 * math.Pow(1e9/T, 6)
}

// spinForcing is the compression source term W * Omega * dOmega/dt driven by
// the same torque rate the spin-down driver applies.
func spinForcing(omega float64, phys *star.Physics) float64 {
	if !isFinite(omega) || omega <= 0 {
		return 0
	}
	return -phys.ChemSpinCoeff * omega * omegaDot(omega, phys)
}

func (d *Chemical) AccumulateRHS(t float64, st *engine.Registry, acc *engine.Accumulator, ctx *engine.Context) error {
	etaNpe, etaNpmu, ok := readChemical(st)
	if !ok {
		return nil
	}
	T, hasT := readThermal(st)
	if !hasT || !isFinite(T) || T <= 0 {
		// tau(T) is undefined without a physical temperature.
		return nil
	}
	if !isFinite(etaNpe) || !isFinite(etaNpmu) {
		return nil
	}

	tau := relaxationTime(T, ctx.Physics)

	forcing := 0.0
	if omega, hasSpin := readSpin(st); hasSpin {
		forcing = spinForcing(omega, ctx.Physics)
	}

	if err := acc.AddTo(engine.Chemical, 0, -etaNpe/tau+forcing); err != nil {
		return err
	}
	if err := acc.AddTo(engine.Chemical, 1, -etaNpmu/tau+forcing); err != nil {
		return err
	}

	// Relaxation dissipates the imbalance as heat.
	heating := (math.Abs(etaNpe) + math.Abs(etaNpmu)) / tau
	return acc.AddTo(engine.Thermal, 0, heating/ctx.Structure.HeatCapacity(T))
}

func (*Chemical) DiagnosticsName() string { return "driver.chemical" }

func (*Chemical) UnitContract() []string {
	return []string{
		"imbalances eta in erg, relaxation time in s",
		"heating rate in erg/s (CGS)",
	}
}

func (d *Chemical) DescribeScalars(c *diag.Catalog) {
	name := d.DiagnosticsName()
	for _, line := range d.UnitContract() {
		c.AddContractLine(name, line)
	}
	c.AddScalar(name, diag.Descriptor{
		Key: "eta_npe", Unit: "erg",
		Description: "npe chemical imbalance",
		Source:      "state.chemical", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "eta_npmu", Unit: "erg",
		Description: "npmu chemical imbalance",
		Source:      "state.chemical", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "tau_relax", Unit: "s",
		Description:    "beta-equilibration timescale tau(T)",
		Source:         "chemical.relaxationTime",
		DefaultCadence: diag.OnChange,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "heating_rate", Unit: "erg/s",
		Description: "dissipative heating from imbalance relaxation",
		Source:      "chemical.AccumulateRHS",
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "ok", Unit: "",
		Description:   "1 when inputs were finite and physical",
		Source:        "chemical.diagnose",
		Dimensionless: true,
	})
	c.AddProfile(name, diag.Profile{
		Name: "chemistry",
		Keys: []string{"eta_npe", "eta_npmu", "tau_relax", "heating_rate"},
	})
}

func (d *Chemical) DiagnoseSnapshot(t float64, st *engine.Registry, ctx *engine.Context, p *diag.Packet) {
	name := d.DiagnosticsName()
	etaNpe, etaNpmu, has := readChemical(st)
	if !has {
		p.AddError("chemical block not registered")
		p.AddScalar("ok", 0, "", "1 when inputs were finite and physical", name)
		return
	}
	T, hasT := readThermal(st)

	ok := hasT && isFinite(T) && T > 0 && isFinite(etaNpe) && isFinite(etaNpmu)
	var tau, heating float64
	if ok {
		tau = relaxationTime(T, ctx.Physics)
		heating = (math.Abs(etaNpe) + math.Abs(etaNpmu)) / tau
	} else {
		p.AddWarning("degenerate chemical/thermal state, relaxation skipped")
	}

	p.AddScalar("eta_npe", etaNpe, "erg", "npe chemical imbalance", name)
	p.AddScalar("eta_npmu", etaNpmu, "erg", "npmu chemical imbalance", name)
	if ok {
		p.AddScalar("tau_relax", tau, "s",
			"beta-equilibration timescale tau(T)", name, diag.OnChange)
	}
	p.AddScalar("heating_rate", heating, "erg/s",
		"dissipative heating from imbalance relaxation", name)
	p.AddScalar("ok", boolScalar(ok), "",
		"1 when inputs were finite and physical", name)
}
