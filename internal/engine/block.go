package engine

import (
	"fmt"
	"log/slog"
	"math"
)

// Block is the capability every physical sub-state implements: a contiguous
// float64 buffer of fixed length, sized once before integration starts.
// Resizing after the layout is configured is a contract violation that
// pack/unpack detect and refuse.
type Block interface {
	// Size returns the current number of components.
	Size() int
	// Data returns the live backing slice of length Size().
	Data() []float64
	// Resize sets the component count and zero-fills. Must precede packing.
	Resize(n int)
	// Clear zero-fills without changing Size.
	Clear()
	// SanityCheck scans for NaN/Inf, logging offenders, and reports whether
	// the block is fully finite. It never fails.
	SanityCheck() bool
	// PackTo copies exactly Size() values into dst.
	PackTo(dst []float64) error
	// UnpackFrom copies exactly Size() values out of src.
	UnpackFrom(src []float64) error
}

// CheckFinite scans data for NaN/Inf, logging each offender under name, and
// reports whether all entries are finite. It is the shared SanityCheck
// implementation for concrete blocks.
func CheckFinite(name string, data []float64) bool {
	ok := true
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			slog.Warn("non-finite state component",
				"block", name, "component", i, "value", v)
			ok = false
		}
	}
	return ok
}

// CopyOut implements the PackTo contract over a raw buffer.
func CopyOut(name string, data, dst []float64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrNotSized, name)
	}
	if len(dst) < len(data) {
		return fmt.Errorf("%w: %s needs %d, dst has %d",
			ErrSizeMismatch, name, len(data), len(dst))
	}
	copy(dst, data)
	return nil
}

// CopyIn implements the UnpackFrom contract over a raw buffer.
func CopyIn(name string, data, src []float64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: %s", ErrNotSized, name)
	}
	if len(src) < len(data) {
		return fmt.Errorf("%w: %s needs %d, src has %d",
			ErrSizeMismatch, name, len(data), len(src))
	}
	copy(data, src)
	return nil
}
