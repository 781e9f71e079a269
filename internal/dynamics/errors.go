package dynamics

import (
	"errors"
	"fmt"
)

// Configuration errors, detected before any stepping occurs.
var (
	// ErrNoBodies indicates Init was called on an empty system.
	ErrNoBodies = errors.New("dynamics: system has no bodies")

	// ErrUnknownBody indicates a joint references a body index that is
	// not registered with the system.
	ErrUnknownBody = errors.New("dynamics: joint references unregistered body")

	// ErrFrozenTopology indicates an Add or Init call after the topology
	// was frozen by Init.
	ErrFrozenTopology = errors.New("dynamics: topology is frozen after init")

	// ErrNotInitialized indicates Step was called before Init.
	ErrNotInitialized = errors.New("dynamics: init must be called before stepping")

	// ErrDisconnected indicates a body is not reachable from the anchor
	// body through any chain of joints, leaving a free subsystem.
	ErrDisconnected = errors.New("dynamics: body unreachable from anchor")
)

// Numerical failures, surfaced at runtime from inside a step.
var (
	// ErrSingularSystem indicates the augmented mass/constraint matrix
	// could not be solved, typically from a redundant or inconsistent
	// constraint set.
	ErrSingularSystem = errors.New("dynamics: singular augmented system")

	// ErrInvalidState indicates NaN or Inf entered the state vector.
	ErrInvalidState = errors.New("dynamics: invalid state (NaN or Inf detected)")
)

// StepError wraps a failure with the step count and simulation time at
// which it occurred.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
