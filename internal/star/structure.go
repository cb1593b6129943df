package star

import "math"

// CGS constants used throughout the background model.
const (
	GravG      = 6.67430e-8    // cm^3 g^-1 s^-2
	LightSpeed = 2.99792458e10 // cm s^-1
	SolarMass  = 1.98892e33    // g
)

// Structure is the static background geometry a run evolves on: the output
// of the stellar-structure solver, cached as a handful of global quantities.
// It is read-only during integration and must outlive any Context holding it.
type Structure struct {
	Mass            float64 // g
	Radius          float64 // cm
	MomentOfInertia float64 // g cm^2

	// CoreHeatCapCoeff is the lumped core heat capacity coefficient a in
	// C(T) = a * (T / 1e9 K), erg/K.
	CoreHeatCapCoeff float64
}

// Canonical returns the standard 1.4 Msun, 12 km background.
func Canonical() *Structure {
	return &Structure{
		Mass:             1.4 * SolarMass,
		Radius:           1.2e6,
		MomentOfInertia:  1.36e45,
		CoreHeatCapCoeff: 1.0e39,
	}
}

// Compactness returns 2GM/(Rc^2).
func (s *Structure) Compactness() float64 {
	return 2 * GravG * s.Mass / (s.Radius * LightSpeed * LightSpeed)
}

// RedshiftFactor returns sqrt(1 - 2GM/Rc^2), the surface lapse.
func (s *Structure) RedshiftFactor() float64 {
	return math.Sqrt(1 - s.Compactness())
}

// SurfaceGravity returns the proper surface gravity in cm s^-2.
func (s *Structure) SurfaceGravity() float64 {
	return GravG * s.Mass / (s.Radius * s.Radius * s.RedshiftFactor())
}

// HeatCapacity evaluates the lumped core heat capacity at temperature T (K).
func (s *Structure) HeatCapacity(T float64) float64 {
	return s.CoreHeatCapCoeff * (T / 1e9)
}
