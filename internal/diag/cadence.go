package diag

// Cadence governs how often a computed scalar is actually recorded.
type Cadence string

const (
	// Always records the scalar on every eligible sample.
	Always Cadence = "always"
	// OnChange records the scalar when it differs from the last recorded
	// value by more than the filter tolerance. The first observation of a
	// key is always recorded.
	OnChange Cadence = "on_change"
	// OncePerRun records the scalar at most once per producer per run.
	OncePerRun Cadence = "once_per_run"
)

func (c Cadence) Valid() bool {
	switch c {
	case Always, OnChange, OncePerRun:
		return true
	}
	return false
}
