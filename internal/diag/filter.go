package diag

import "math"

// DefaultOnChangeRelTol is the relative tolerance below which two consecutive
// OnChange observations are considered unchanged.
const DefaultOnChangeRelTol = 1e-9

// CadenceFilter decides, per (producer, key), whether a scalar should be
// recorded this sample. State resets at run start.
type CadenceFilter struct {
	relTol   float64
	lastSeen map[string]float64
	emitted  map[string]bool
}

func NewCadenceFilter(relTol float64) *CadenceFilter {
	if relTol <= 0 {
		relTol = DefaultOnChangeRelTol
	}
	f := &CadenceFilter{relTol: relTol}
	f.Reset()
	return f
}

// Reset clears all baselines and once-per-run bookkeeping.
func (f *CadenceFilter) Reset() {
	f.lastSeen = make(map[string]float64)
	f.emitted = make(map[string]bool)
}

// ShouldEmit reports whether the scalar passes its cadence policy, updating
// the filter state when it does. The first observation of an OnChange key is
// always emitted and seeds the baseline; Always writes never touch OnChange
// baselines.
func (f *CadenceFilter) ShouldEmit(producer, key string, s Scalar) bool {
	id := producer + "\x00" + key
	switch s.Cadence {
	case OncePerRun:
		if f.emitted[id] {
			return false
		}
		f.emitted[id] = true
		return true
	case OnChange:
		prev, seen := f.lastSeen[id]
		if seen && withinTol(s.Value, prev, f.relTol) {
			return false
		}
		f.lastSeen[id] = s.Value
		return true
	default:
		return true
	}
}

// Apply filters a whole packet in place, dropping suppressed scalars.
func (f *CadenceFilter) Apply(p *Packet) {
	for _, key := range p.Keys() {
		s, _ := p.Scalar(key)
		if !f.ShouldEmit(p.Producer, key, s) {
			p.Drop(key)
		}
	}
}

func withinTol(a, b, relTol float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= relTol*scale
}
