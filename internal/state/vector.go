// Package state holds the concrete state blocks the evolution registers:
// rotation, thermal, chemical imbalance, and exotic-particle sub-states.
// Each block is a named view over a contiguous float64 buffer satisfying
// [engine.Block].
package state

import (
	"github.com/Oichkatzelesfrettschen/CompactStar-sub000/internal/engine"
)

// vector is the shared buffer implementation embedded by every concrete
// block. The embedding block supplies its log name.
type vector struct {
	name string
	data []float64
}

func (v *vector) Size() int       { return len(v.data) }
func (v *vector) Data() []float64 { return v.data }

func (v *vector) Resize(n int) {
	v.data = make([]float64, n)
}

func (v *vector) Clear() {
	for i := range v.data {
		v.data[i] = 0
	}
}

func (v *vector) SanityCheck() bool {
	return engine.CheckFinite(v.name, v.data)
}

func (v *vector) PackTo(dst []float64) error {
	return engine.CopyOut(v.name, v.data, dst)
}

func (v *vector) UnpackFrom(src []float64) error {
	return engine.CopyIn(v.name, v.data, src)
}

// at reads component i, tolerating an unsized block by returning zero so
// named accessors stay total.
func (v *vector) at(i int) float64 {
	if i >= len(v.data) {
		return 0
	}
	return v.data[i]
}

func (v *vector) set(i int, x float64) {
	if i < len(v.data) {
		v.data[i] = x
	}
}
