package star

import "math"

// Envelope maps the internal (base-of-envelope) temperature to an effective
// surface temperature. Implementations must be pure functions of their
// inputs.
type Envelope interface {
	Name() string
	// SurfaceTemperature returns Ts (K) for internal temperature Tb (K) on
	// the given background.
	SurfaceTemperature(Tb float64, s *Structure) float64
}

// IronEnvelope is the classic fully-accreted iron envelope Tb-Ts relation,
// Ts ~ g14^(1/4) * (Tb/1e8 K)^0.55.
type IronEnvelope struct{}

func (IronEnvelope) Name() string { return "envelope.iron" }

func (IronEnvelope) SurfaceTemperature(Tb float64, s *Structure) float64 {
	if Tb <= 0 {
		return 0
	}
	g14 := s.SurfaceGravity() / 1e14
	return 0.87e6 * math.Pow(g14, 0.25) * math.Pow(Tb/1e8, 0.55)
}
