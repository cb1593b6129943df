package star

// Physics collects the global tunables the drivers read. A zero value is not
// usable; call DefaultPhysics and override.
type Physics struct {
	// Spin-down torque dOmega/dt = -SpindownK * Omega^BrakingIndex.
	SpindownK    float64
	BrakingIndex float64

	// Modified-Urca neutrino luminosity Lnu = UrcaNorm * (T/1e9 K)^8, erg/s.
	UrcaNorm float64

	// Chemical imbalance relaxation time tau(T) = ChemTau0 * (1e9 K / T)^6, s,
	// and the spin-down forcing coefficient in d(eta)/dt.
	ChemTau0      float64
	ChemSpinCoeff float64

	// Exotic particle production threshold temperature (K) and rates (1/s).
	ExoticThresholdT float64
	ExoticProduction float64
	ExoticDecay      float64
}

func DefaultPhysics() *Physics {
	return &Physics{
		SpindownK:        1e-15,
		BrakingIndex:     3,
		UrcaNorm:         1e40,
		ChemTau0:         1e4,
		ChemSpinCoeff:    1e-2,
		ExoticThresholdT: 5e8,
		ExoticProduction: 1e-12,
		ExoticDecay:      1e-10,
	}
}
