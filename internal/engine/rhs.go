package engine

import "fmt"

// RHS is the evaluation functor handed to the ODE integrator. One evaluation
// unpacks the flat state, clears the accumulator, runs every driver in
// registration order, and scatters the accumulated contributions into the
// flat derivative vector.
type RHS struct {
	layout    *Layout
	reg       *Registry
	acc       *Accumulator
	drivers   []Driver
	ctx       *Context
	observers []Observer
}

// NewRHS validates the wiring up front: mandatory context members must be
// non-nil and at least one driver must be supplied.
func NewRHS(layout *Layout, reg *Registry, acc *Accumulator, drivers []Driver, ctx *Context) (*RHS, error) {
	if layout == nil || reg == nil || acc == nil {
		return nil, fmt.Errorf("%w: layout/registry/accumulator", ErrNilContext)
	}
	if ctx == nil || ctx.Structure == nil {
		return nil, fmt.Errorf("%w: star structure", ErrNilContext)
	}
	if ctx.Physics == nil {
		return nil, fmt.Errorf("%w: physics configuration", ErrNilContext)
	}
	if len(drivers) == 0 {
		return nil, ErrNoDrivers
	}
	return &RHS{
		layout:  layout,
		reg:     reg,
		acc:     acc,
		drivers: drivers,
		ctx:     ctx,
	}, nil
}

// Dim returns the flat-vector dimension the integrator must use.
func (r *RHS) Dim() int { return r.layout.TotalSize() }

// Drivers returns the driver list in registration order.
func (r *RHS) Drivers() []Driver { return r.drivers }

// Context returns the shared read-only evaluation context.
func (r *RHS) Context() *Context { return r.ctx }

// State returns the registry the flat vector unpacks into.
func (r *RHS) State() *Registry { return r.reg }

// AddObserver appends an observer; notification order is registration order.
func (r *RHS) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Eval computes dydt at (t, y). Driver failures are fatal evaluation errors;
// the integrator decides whether to abort the run.
func (r *RHS) Eval(t float64, y, dydt []float64) error {
	if err := Unpack(r.reg, r.layout, y); err != nil {
		return err
	}
	r.acc.Clear()

	for _, d := range r.drivers {
		if err := d.AccumulateRHS(t, r.reg, r.acc, r.ctx); err != nil {
			return &EvalError{Driver: d.Name(), Time: t, Wrapped: err}
		}
	}

	return r.scatter(dydt)
}

// scatter copies the per-tag accumulator buffers into the flat derivative
// vector. Every active layout tag must have a configured accumulator buffer
// of matching size.
func (r *RHS) scatter(dydt []float64) error {
	if len(dydt) < r.layout.TotalSize() {
		return fmt.Errorf("%w: dydt has %d, layout needs %d",
			ErrSizeMismatch, len(dydt), r.layout.TotalSize())
	}
	for _, tag := range r.layout.order {
		buf, err := r.acc.Block(tag)
		if err != nil {
			return err
		}
		size, _ := r.layout.BlockSize(tag)
		if len(buf) != size {
			return fmt.Errorf("%w: accumulator %s is %d, layout recorded %d",
				ErrSizeMismatch, tag, len(buf), size)
		}
		copy(r.layout.slice(dydt, tag), buf)
	}
	return nil
}

// NotifyStart unpacks y0 and fans run-start info out to every observer.
func (r *RHS) NotifyStart(info RunInfo, y0 []float64) error {
	if err := Unpack(r.reg, r.layout, y0); err != nil {
		return err
	}
	for _, o := range r.observers {
		if err := o.OnStart(info, r.reg, r.ctx); err != nil {
			return err
		}
	}
	return nil
}

// NotifySample unpacks y and fans sample info out to every observer.
func (r *RHS) NotifySample(info SampleInfo, y []float64) error {
	if err := Unpack(r.reg, r.layout, y); err != nil {
		return err
	}
	for _, o := range r.observers {
		if err := o.OnSample(info, r.reg, r.ctx); err != nil {
			return err
		}
	}
	return nil
}

// NotifyFinish unpacks the final state and fans finish info out to every
// observer.
func (r *RHS) NotifyFinish(info FinishInfo, y []float64) error {
	if err := Unpack(r.reg, r.layout, y); err != nil {
		return err
	}
	for _, o := range r.observers {
		if err := o.OnFinish(info, r.reg, r.ctx); err != nil {
			return err
		}
	}
	return nil
}
