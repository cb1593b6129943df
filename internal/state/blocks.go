package state

// Fixed component indices for each block. The contiguous-buffer contract is
// the interface; these names are the only sanctioned way to address
// individual components.
const (
	rotOmega = iota
	rotSize
)

const (
	thTInf = iota
	thSize
)

const (
	chEtaNpe = iota
	chEtaNpmu
	chSize
)

const (
	exAbundance = iota
	exSize
)

// Rotation holds the angular frequency Omega (rad/s).
type Rotation struct {
	vector
}

func NewRotation() *Rotation {
	r := &Rotation{vector{name: "rotation"}}
	r.Resize(rotSize)
	return r
}

func (r *Rotation) Omega() float64     { return r.at(rotOmega) }
func (r *Rotation) SetOmega(w float64) { r.set(rotOmega, w) }

// Thermal holds the redshifted internal temperature T^inf (K).
type Thermal struct {
	vector
}

func NewThermal() *Thermal {
	t := &Thermal{vector{name: "thermal"}}
	t.Resize(thSize)
	return t
}

func (t *Thermal) TInf() float64     { return t.at(thTInf) }
func (t *Thermal) SetTInf(v float64) { t.set(thTInf, v) }

// Chemical holds the npe and npmu chemical imbalances eta (erg).
type Chemical struct {
	vector
}

func NewChemical() *Chemical {
	c := &Chemical{vector{name: "chemical"}}
	c.Resize(chSize)
	return c
}

func (c *Chemical) EtaNpe() float64      { return c.at(chEtaNpe) }
func (c *Chemical) SetEtaNpe(v float64)  { c.set(chEtaNpe, v) }
func (c *Chemical) EtaNpmu() float64     { return c.at(chEtaNpmu) }
func (c *Chemical) SetEtaNpmu(v float64) { c.set(chEtaNpmu, v) }

// Exotic holds the exotic-particle abundance fraction (dimensionless).
type Exotic struct {
	vector
}

func NewExotic() *Exotic {
	e := &Exotic{vector{name: "exotic"}}
	e.Resize(exSize)
	return e
}

func (e *Exotic) Abundance() float64     { return e.at(exAbundance) }
func (e *Exotic) SetAbundance(v float64) { e.set(exAbundance, v) }
