package engine

import (
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/diag"
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/star"
)

// Context is the read-only background every driver sees during one
// evaluation. Structure and Physics are mandatory; Envelope is optional and
// drivers must check it before use. The referenced objects are owned by the
// application and must outlive the context.
type Context struct {
	Structure *star.Structure
	Physics   *star.Physics
	Envelope  star.Envelope
}

// Driver is one unit of physics: it declares which tags it reads and which
// it writes, and adds its contribution into the accumulator. Contributions
// are commutative additions, so drivers must not assume any execution order
// relative to each other.
//
// AccumulateRHS must not mutate the state or the context, must only read
// DependsOn tags and only add into Updates tags, and must skip its
// contribution (rather than emit non-finite values) when an optional context
// member it needs is absent or an input is degenerate. The integrator probes
// nonphysical trial states during step-size control; a degenerate input is
// not an error.
type Driver interface {
	Name() string
	DependsOn() []Tag
	Updates() []Tag
	AccumulateRHS(t float64, state *Registry, acc *Accumulator, ctx *Context) error
}

// Diagnoser is the optional diagnostics extension of a Driver. Snapshot
// computation must share the derived-quantity code the RHS path uses, so the
// reported numbers cannot drift away from the physics.
type Diagnoser interface {
	// DiagnosticsName is the stable producer key for packets and catalogs.
	DiagnosticsName() string
	// UnitContract returns human-readable unit convention lines.
	UnitContract() []string
	// DescribeScalars registers the full schema of scalars this producer may
	// emit, plus any named column profiles.
	DescribeScalars(c *diag.Catalog)
	// DiagnoseSnapshot fills the packet from the current state, read-only.
	DiagnoseSnapshot(t float64, state *Registry, ctx *Context, p *diag.Packet)
}
