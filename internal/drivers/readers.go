package drivers

import (
	"math"

	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

// Drivers read state through the generic block buffers so they stay
// decoupled from the concrete block types. Component conventions:
// spin[0] = Omega, thermal[0] = T^inf, chemical[0] = eta_npe,
// chemical[1] = eta_npmu, exotic[0] = abundance.

func readComponent(st *engine.Registry, tag engine.Tag, i int) (float64, bool) {
	b, err := st.Get(tag)
	if err != nil || b.Size() <= i {
		return 0, false
	}
	return b.Data()[i], true
}

func readSpin(st *engine.Registry) (float64, bool) {
	return readComponent(st, engine.Spin, 0)
}

func readThermal(st *engine.Registry) (float64, bool) {
	return readComponent(st, engine.Thermal, 0)
}

func readChemical(st *engine.Registry) (etaNpe, etaNpmu float64, ok bool) {
	etaNpe, ok = readComponent(st, engine.Chemical, 0)
	if !ok {
		return 0, 0, false
	}
	etaNpmu, _ = readComponent(st, engine.Chemical, 1)
	return etaNpe, etaNpmu, true
}

func readExotic(st *engine.Registry) (float64, bool) {
	return readComponent(st, engine.Exotic, 0)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func boolScalar(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
