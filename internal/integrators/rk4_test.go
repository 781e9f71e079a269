package integrators

import (
	"errors"
	"math"
	"testing"
)

// Simple harmonic oscillator: dx = [v, -x].
func oscillator(x []float64) ([]float64, error) {
	return []float64{x[1], -x[0]}, nil
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := []float64{1.0, 0.0}
	dt := 0.01
	steps := 100

	var err error
	for i := 0; i < steps; i++ {
		x, err = integ.Step(oscillator, x, dt)
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestRK4FourthOrder(t *testing.T) {
	integ := NewRK4()

	final := func(dt float64, steps int) float64 {
		x := []float64{1.0, 0.0}
		for i := 0; i < steps; i++ {
			x, _ = integ.Step(oscillator, x, dt)
		}
		return x[0]
	}

	exact := math.Cos(1.0)
	e1 := math.Abs(final(0.1, 10) - exact)
	e2 := math.Abs(final(0.05, 20) - exact)

	ratio := e1 / e2
	if ratio < 8 || ratio > 40 {
		t.Errorf("halving dt gave error ratio %.2f, want about 16", ratio)
	}
}

func TestRK4PropagatesError(t *testing.T) {
	integ := NewRK4()
	boom := errors.New("derivative failed")

	_, err := integ.Step(func(x []float64) ([]float64, error) {
		return nil, boom
	}, []float64{1}, 0.01)

	if !errors.Is(err, boom) {
		t.Errorf("expected propagated error, got %v", err)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	integ := NewRK4()
	x := []float64{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _ = integ.Step(oscillator, x, 0.01)
	}
}
