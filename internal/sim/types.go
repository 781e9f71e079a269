// Package sim builds systems from scenario configs and drives them
// through timed runs with metrics and observers attached.
package sim

import (
	"github.com/san-kum/multibody/internal/dynamics"
)

// Config controls a single run. Dt comes from the system itself; the
// runner issues one Step per increment until Duration is covered.
type Config struct {
	Duration    float64
	RecordEvery int
}

// Result collects a run's recorded trajectory and final metric values.
// Each frame is time plus, for every mobile body in insertion order,
// its three world position components.
type Result struct {
	Times   []float64
	Frames  [][]float64
	Metrics map[string]float64
	Steps   int
}

// Observer is notified after every committed step.
type Observer interface {
	OnStep(sys *dynamics.System, t float64)
}

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(sys *dynamics.System, t float64)
	Value() float64
	Reset()
}
