// Package engine is the driver-composable right-hand-side machinery for the
// evolution system.
//
// A run assembles a [Registry] of state blocks, computes a flat-vector
// [Layout] over them, configures an [Accumulator] matching the layout, and
// hands a set of [Driver] implementations to an [RHS]. The RHS is the
// callable the ODE integrator evaluates:
//
//	rhs, err := engine.NewRHS(layout, reg, acc, drivers, ctx)
//	...
//	err = rhs.Eval(t, y, dydt)
//
// Observers attached to the RHS receive lifecycle notifications (start,
// sample, finish) with the state already unpacked from the flat vector.
//
// Everything here is single-threaded: one evaluation or notification runs at
// a time, and nothing is safe for concurrent use.
package engine
