package engine

// RunInfo describes a run at its start.
type RunInfo struct {
	T0    float64
	TF    float64
	RunID string
}

// SampleInfo describes one sampling point. Sample is the monotonic sample
// counter; Step is the integrator's step index when known, -1 otherwise.
type SampleInfo struct {
	Time   float64
	Sample int
	Step   int
}

// FinishInfo describes how a run ended.
type FinishInfo struct {
	Time    float64
	Success bool
	Message string
}

// Observer receives lifecycle notifications with the state already unpacked.
// Embed NopObserver to pick up no-op defaults.
type Observer interface {
	OnStart(info RunInfo, state *Registry, ctx *Context) error
	OnSample(info SampleInfo, state *Registry, ctx *Context) error
	OnFinish(info FinishInfo, state *Registry, ctx *Context) error
}

// NopObserver implements Observer with no-ops.
type NopObserver struct{}

func (NopObserver) OnStart(RunInfo, *Registry, *Context) error     { return nil }
func (NopObserver) OnSample(SampleInfo, *Registry, *Context) error { return nil }
func (NopObserver) OnFinish(FinishInfo, *Registry, *Context) error { return nil }
