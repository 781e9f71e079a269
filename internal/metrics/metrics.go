// Package metrics provides run-level observers for multibody systems.
package metrics

import (
	"math"

	"github.com/san-kum/multibody/internal/dynamics"
)

// ConstraintDrift tracks the worst joint residual norm seen over a run.
// The solver carries no stabilization term, so a small bounded drift is
// the expected signature of a healthy run.
type ConstraintDrift struct {
	max float64
}

func NewConstraintDrift() *ConstraintDrift {
	return &ConstraintDrift{}
}

func (c *ConstraintDrift) Name() string { return "constraint_drift" }

func (c *ConstraintDrift) Observe(sys *dynamics.System, t float64) {
	if v := sys.ConstraintViolation(); v > c.max {
		c.max = v
	}
}

func (c *ConstraintDrift) Value() float64 { return c.max }
func (c *ConstraintDrift) Reset()         { c.max = 0 }

// EnergyDrift tracks the maximum relative change of total mechanical
// energy from its initial value.
type EnergyDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(sys *dynamics.System, t float64) {
	energy := Mechanical(sys)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		if drift > e.maxDrift {
			e.maxDrift = drift
		}
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// Mechanical returns the total mechanical energy of the mobile bodies:
// translational and rotational kinetic energy minus the work of the
// constant applied forces (gravity enters through the applied force, so
// -F.s is its potential).
func Mechanical(sys *dynamics.System) float64 {
	total := 0.0
	for i := 0; i < sys.NumBodies(); i++ {
		b := sys.Body(i)
		if b.Fixed() {
			continue
		}

		m := b.MassMatrix()
		v := b.Velocity()
		w := b.AngularVelocity()

		ke := 0.5 * m.At(0, 0) * v.Dot(v)
		ke += 0.5 * (m.At(3, 3)*w.X()*w.X() + m.At(4, 4)*w.Y()*w.Y() + m.At(5, 5)*w.Z()*w.Z())
		pe := -b.Force().Dot(b.Position())

		total += ke + pe
	}
	return total
}
