package diag

import (
	"fmt"
	"math"
	"sort"
)

// Scalar is one named diagnostic value with its reporting metadata.
type Scalar struct {
	Value       float64
	Unit        string
	Description string
	Source      string
	Cadence     Cadence
}

// Packet is one timestamped snapshot of named scalars plus free-text
// annotations for a single producer. Packets are built fresh per recording
// event and discarded after serialization.
type Packet struct {
	Producer string
	Time     float64
	Step     int

	scalars  map[string]Scalar
	contract []string
	warnings []string
	errors   []string
	notes    []string
}

func NewPacket(producer string, t float64, step int) *Packet {
	return &Packet{
		Producer: producer,
		Time:     t,
		Step:     step,
		scalars:  make(map[string]Scalar),
	}
}

// AddScalar records a scalar, overwriting any prior entry with the same key.
// Cadence defaults to Always when omitted.
func (p *Packet) AddScalar(key string, value float64, unit, description, source string, cadence ...Cadence) {
	c := Always
	if len(cadence) > 0 {
		c = cadence[0]
	}
	p.scalars[key] = Scalar{
		Value:       value,
		Unit:        unit,
		Description: description,
		Source:      source,
		Cadence:     c,
	}
}

func (p *Packet) AddContractLine(line string) { p.contract = append(p.contract, line) }
func (p *Packet) AddWarning(msg string)       { p.warnings = append(p.warnings, msg) }
func (p *Packet) AddError(msg string)         { p.errors = append(p.errors, msg) }
func (p *Packet) AddNote(msg string)          { p.notes = append(p.notes, msg) }

// Keys returns the scalar keys in lexicographic order.
func (p *Packet) Keys() []string {
	keys := make([]string, 0, len(p.scalars))
	for k := range p.scalars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Scalar returns the entry for key, if present.
func (p *Packet) Scalar(key string) (Scalar, bool) {
	s, ok := p.scalars[key]
	return s, ok
}

func (p *Packet) NumScalars() int    { return len(p.scalars) }
func (p *Packet) Contract() []string { return p.contract }
func (p *Packet) Warnings() []string { return p.warnings }
func (p *Packet) Errors() []string   { return p.errors }
func (p *Packet) Notes() []string    { return p.notes }

// Drop removes a scalar from the packet. Used by cadence filtering.
func (p *Packet) Drop(key string) { delete(p.scalars, key) }

// ValidateBasic scans all scalars for non-finite values, appending one error
// per offender, and warns if the producer name is empty. It never fails.
func (p *Packet) ValidateBasic() {
	if p.Producer == "" {
		p.AddWarning("packet has empty producer name")
	}
	for _, key := range p.Keys() {
		v := p.scalars[key].Value
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.AddError(fmt.Sprintf("scalar %q is non-finite (%v)", key, v))
		}
	}
}
