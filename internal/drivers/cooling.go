package drivers

import (
	"math"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
)

const stefanBoltzmann = 5.670374e-5 // erg cm^-2 s^-1 K^-4

// Cooling evolves the internal temperature through neutrino emission and,
// when an envelope model is present, surface photon emission:
// dT/dt = -(Lnu + Lgamma) / C(T).
type Cooling struct{}

func NewCooling() *Cooling { return &Cooling{} }

func (*Cooling) Name() string            { return "cooling" }
func (*Cooling) DependsOn() []engine.Tag { return []engine.Tag{engine.Thermal} }
func (*Cooling) Updates() []engine.Tag   { return []engine.Tag{engine.Thermal} }

// neutrinoLuminosity is the lumped modified-Urca emissivity.
func neutrinoLuminosity(T float64, phys *star.Physics) float64 {
	return phys.UrcaNorm * math.Pow(T/1e9, 8)
}

// photonLuminosity requires the optional envelope model; zero without it.
func photonLuminosity(T float64, s *star.Structure, env star.Envelope) float64 {
	if env == nil {
		return 0
	}
	Ts := env.SurfaceTemperature(T, s)
	return 4 * math.Pi * s.Radius * s.Radius * stefanBoltzmann * math.Pow(Ts, 4)
}

func (d *Cooling) AccumulateRHS(t float64, st *engine.Registry, acc *engine.Accumulator, ctx *engine.Context) error {
	T, ok := readThermal(st)
	if !ok {
		return nil
	}
	if !isFinite(T) || T <= 0 {
		return nil
	}
	lnu := neutrinoLuminosity(T, ctx.Physics)
	lph := photonLuminosity(T, ctx.Structure, ctx.Envelope)
	return acc.AddTo(engine.Thermal, 0, -(lnu+lph)/ctx.Structure.HeatCapacity(T))
}

func (*Cooling) DiagnosticsName() string { return "driver.cooling" }

func (*Cooling) UnitContract() []string {
	return []string{
		"temperatures in K (redshifted internal frame)",
		"luminosities in erg/s, heat capacity in erg/K (CGS)",
	}
}

func (d *Cooling) DescribeScalars(c *diag.Catalog) {
	name := d.DiagnosticsName()
	for _, line := range d.UnitContract() {
		c.AddContractLine(name, line)
	}
	c.AddScalar(name, diag.Descriptor{
		Key: "t_internal", Unit: "K",
		Description: "redshifted internal temperature",
		Source:      "state.thermal", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "t_surface", Unit: "K",
		Description: "effective surface temperature (0 without envelope)",
		Source:      "envelope.SurfaceTemperature",
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "l_neutrino", Unit: "erg/s",
		Description: "modified-Urca neutrino luminosity",
		Source:      "cooling.neutrinoLuminosity", Required: true,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "l_photon", Unit: "erg/s",
		Description: "surface photon luminosity",
		Source:      "cooling.photonLuminosity",
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "heat_capacity", Unit: "erg/K",
		Description:    "lumped core heat capacity C(T)",
		Source:         "structure.HeatCapacity",
		DefaultCadence: diag.OnChange,
	})
	c.AddScalar(name, diag.Descriptor{
		Key: "ok", Unit: "",
		Description:   "1 when inputs were finite and physical",
		Source:        "cooling.diagnose",
		Dimensionless: true,
	})
	c.AddProfile(name, diag.Profile{
		Name: "thermal",
		Keys: []string{"t_internal", "t_surface", "l_neutrino", "l_photon"},
	})
}

func (d *Cooling) DiagnoseSnapshot(t float64, st *engine.Registry, ctx *engine.Context, p *diag.Packet) {
	name := d.DiagnosticsName()
	T, has := readThermal(st)
	if !has {
		p.AddError("thermal block not registered")
		p.AddScalar("ok", 0, "", "1 when inputs were finite and physical", name)
		return
	}

	ok := isFinite(T) && T > 0
	var lnu, lph, Ts float64
	if ok {
		lnu = neutrinoLuminosity(T, ctx.Physics)
		lph = photonLuminosity(T, ctx.Structure, ctx.Envelope)
		if ctx.Envelope != nil {
			Ts = ctx.Envelope.SurfaceTemperature(T, ctx.Structure)
		}
	} else {
		p.AddWarning("degenerate thermal state, cooling skipped")
	}
	if ctx.Envelope == nil {
		p.AddNote("no envelope model; photon luminosity omitted")
	}

	p.AddScalar("t_internal", T, "K", "redshifted internal temperature", name)
	p.AddScalar("t_surface", Ts, "K",
		"effective surface temperature (0 without envelope)", name)
	p.AddScalar("l_neutrino", lnu, "erg/s", "modified-Urca neutrino luminosity", name)
	p.AddScalar("l_photon", lph, "erg/s", "surface photon luminosity", name)
	if ok {
		p.AddScalar("heat_capacity", ctx.Structure.HeatCapacity(T), "erg/K",
			"lumped core heat capacity C(T)", name, diag.OnChange)
	}
	p.AddScalar("ok", boolScalar(ok), "",
		"1 when inputs were finite and physical", name)
}
