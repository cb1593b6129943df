package integrators

// RK4 is the classical fourth-order Runge-Kutta method with reused scratch
// buffers.
type RK4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
	stats          Stats
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

func (r *RK4) Step(f Func, y []float64, t, dt float64) ([]float64, error) {
	n := len(y)
	r.ensureScratch(n)

	if err := f(t, y, r.k1); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k1[i]
	}
	if err := f(t+dt*0.5, r.scratch, r.k2); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*0.5*r.k2[i]
	}
	if err := f(t+dt*0.5, r.scratch, r.k3); err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		r.scratch[i] = y[i] + dt*r.k3[i]
	}
	if err := f(t+dt, r.scratch, r.k4); err != nil {
		return nil, err
	}

	result := make([]float64, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = y[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	r.stats.Steps++
	r.stats.Evaluations += 4
	r.stats.LastDt = dt
	return result, nil
}

func (r *RK4) Stats() Stats { return r.stats }
