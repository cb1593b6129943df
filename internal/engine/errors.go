package engine

import "errors"

// Configuration errors: wiring bugs that must abort the run at the point of
// detection.
var (
	// ErrUnregisteredTag indicates a tag was queried before Register.
	ErrUnregisteredTag = errors.New("engine: tag not registered")

	// ErrInactiveTag indicates a tag absent from the configured layout.
	ErrInactiveTag = errors.New("engine: tag not active in layout")

	// ErrUnconfigured indicates an accumulator tag used before Configure.
	ErrUnconfigured = errors.New("engine: accumulator tag not configured")

	// ErrSizeMismatch indicates a block resized after layout configuration.
	ErrSizeMismatch = errors.New("engine: block size does not match layout")

	// ErrIndexRange indicates a component index outside a configured buffer.
	ErrIndexRange = errors.New("engine: component index out of range")

	// ErrNotSized indicates pack/unpack on a block before a non-zero Resize.
	ErrNotSized = errors.New("engine: block packed before resize")

	// ErrNoDrivers indicates an RHS constructed with an empty driver list.
	ErrNoDrivers = errors.New("engine: no drivers supplied")

	// ErrNilContext indicates a missing mandatory context member.
	ErrNilContext = errors.New("engine: required context member is nil")
)

// ErrDegenerate marks a recoverable numerical anomaly. Drivers detecting
// non-finite inputs skip their contribution and report through diagnostics;
// they do not return this from AccumulateRHS.
var ErrDegenerate = errors.New("engine: degenerate evaluation input")

// EvalError wraps a driver failure with the evaluation it happened in.
type EvalError struct {
	Driver  string
	Time    float64
	Wrapped error
}

func (e *EvalError) Error() string {
	return "engine: driver " + e.Driver + " failed: " + e.Wrapped.Error()
}

func (e *EvalError) Unwrap() error { return e.Wrapped }
