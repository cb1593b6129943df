// Package integrators provides fixed-step RK4 and adaptive Dormand-Prince
// RK45 stepping over a flat right-hand-side callable.
package integrators

// Func is the flat ODE right-hand side: fill dydt from (t, y). Both slices
// have the system dimension; an error aborts the step.
type Func func(t float64, y, dydt []float64) error

// Integrator advances the flat state by one step of size dt.
type Integrator interface {
	Step(f Func, y []float64, t, dt float64) ([]float64, error)
}

// Adaptive integrators additionally propose the next step size from a local
// error estimate.
type Adaptive interface {
	Integrator
	// StepAdaptive returns the new state, the step size actually taken, and
	// the suggested next dt. A step whose error estimate exceeds tol is
	// retried internally with a smaller dt before returning, so the taken
	// step can be smaller than the requested one; callers must advance time
	// by the taken step.
	StepAdaptive(f Func, y []float64, t, dt, tol float64) ([]float64, float64, float64, error)
}

// Stats counts the work an integrator performed across a run.
type Stats struct {
	Steps       int
	Rejected    int
	Evaluations int
	LastDt      float64
}
