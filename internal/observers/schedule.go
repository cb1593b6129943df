// Package observers records runs: a cadence-filtered JSON-lines diagnostics
// stream and a column-oriented time-series table.
package observers

import "github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"

// Schedule decides which samples are recorded. Either condition is
// sufficient: a step-count modulus, a simulated-time interval, or both.
// A zero Schedule records every sample. Sample 0 is always eligible.
type Schedule struct {
	EverySamples int
	EveryTime    float64

	lastTime float64
	primed   bool
}

// Eligible reports whether this sample should be recorded, advancing the
// time baseline when it is.
func (s *Schedule) Eligible(info engine.SampleInfo) bool {
	if !s.primed || info.Sample == 0 {
		s.primed = true
		s.lastTime = info.Time
		return true
	}
	if s.EverySamples <= 0 && s.EveryTime <= 0 {
		s.lastTime = info.Time
		return true
	}
	if s.EverySamples > 0 && info.Sample%s.EverySamples == 0 {
		s.lastTime = info.Time
		return true
	}
	if s.EveryTime > 0 && info.Time-s.lastTime >= s.EveryTime {
		s.lastTime = info.Time
		return true
	}
	return false
}

// Reset re-arms the schedule for a new run.
func (s *Schedule) Reset() {
	s.primed = false
	s.lastTime = 0
}
