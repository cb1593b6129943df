package drivers

import (
	"math"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
)

// Spindown applies magnetic-dipole braking dOmega/dt = -K * Omega^n.
type Spindown struct{}

func NewSpindown() *Spindown { return &Spindown{} }

func (*Spindown) Name() string            { return "spindown" }
func (*Spindown) DependsOn() []engine.Tag { return []engine.Tag{engine.Spin} }
func (*Spindown) Updates() []engine.Tag   { return []engine.Tag{engine.Spin} }

// omegaDot is the single source of truth for the braking torque rate, shared
// by AccumulateRHS and DiagnoseSnapshot.
func omegaDot(omega float64, phys *star.Physics) float64 {
	return -phys.SpindownK * math.Pow(omega, phys.BrakingIndex)
}

func (d *Spindown) AccumulateRHS(t float64, st *engine.Registry, acc *engine.Accumulator, ctx *engine.Context) error {
	omega, ok := readSpin(st)
	if !ok {
		return nil
	}
	// A trial state with Omega <= 0 or non-finite gets no torque; the
	// integrator probes such states during step-size control.
	if !isFinite(omega) || omega <= 0 {
		return nil
	}
	return acc.AddTo(engine.Spin, 0, omegaDot(omega, ctx.Physics))
}

func (*Spindown) DiagnosticsName() string { return "driver.spindown" }

func (*Spindown) UnitContract() []string {
	return []string{
		"angular frequency in rad/s, torque rate in rad/s^2",
		"luminosity in erg/s (CGS)",
	}
}

func (d *Spindown) DescribeScalars(c *diag.Catalog) {
	name := d.DiagnosticsName()
	for _, line := range d.UnitContract() {
		c.AddContractLine(name, line)
	}
	c.AddScalar(name, diag.Descriptor{
		Key: "omega", Unit: "rad/s",
		Description: "angular frequency",
		Source:      "state.rotation", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "omega_dot", Unit: "rad/s^2",
		Description: "braking torque rate",
		Source:      "spindown.omegaDot", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "spindown_luminosity", Unit: "erg/s",
		Description: "rotational energy loss rate I*Omega*|dOmega/dt|",
		Source:      "spindown.omegaDot",
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "braking_index", Unit: "",
		Description:    "assumed braking index n",
		Source:         "physics.config",
		DefaultCadence: diag.OncePerRun, Dimensionless: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "ok", Unit: "",
		Description:   "1 when inputs were finite and physical",
		Source:        "spindown.diagnose",
		Dimensionless: true,
	})
	c.AddProfile(name, diag.Profile{
		Name: "spin",
		Keys: []string{"omega", "omega_dot", "spindown_luminosity"},
	})
}

func (d *Spindown) DiagnoseSnapshot(t float64, st *engine.Registry, ctx *engine.Context, p *diag.Packet) {
	name := d.DiagnosticsName()
	omega, has := readSpin(st)
	if !has {
		p.AddError("rotation block not registered")
		p.AddScalar("ok", 0, "", "1 when inputs were finite and physical", name)
		return
	}

	ok := isFinite(omega) && omega > 0
	wdot := 0.0
	if ok {
		wdot = omegaDot(omega, ctx.Physics)
	} else {
		p.AddWarning("degenerate rotation state, torque skipped")
	}

	p.AddScalar("omega", omega, "rad/s", "angular frequency", name)
	p.AddScalar("omega_dot", wdot, "rad/s^2", "braking torque rate", name)
	p.AddScalar("spindown_luminosity",
		ctx.Structure.MomentOfInertia*omega*math.Abs(wdot),
		"erg/s", "rotational energy loss rate I*Omega*|dOmega/dt|", name)
	p.AddScalar("braking_index", ctx.Physics.BrakingIndex, "",
		"assumed braking index n", name, diag.OncePerRun)
	p.AddScalar("ok", boolScalar(ok), "",
		"1 when inputs were finite and physical", name)
}
