// Package integrators provides fixed-step explicit integration over flat
// state vectors.
package integrators

// Func evaluates the state derivative. A non-nil error aborts the step.
type Func func(x []float64) ([]float64, error)

// RK4 is the classic explicit fourth-order Runge-Kutta scheme. Scratch
// buffers are reused across steps; an RK4 value must not be shared
// between concurrently stepping systems.
type RK4 struct {
	k1, k2, k3, k4 []float64
	scratch        []float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make([]float64, n)
		r.k2 = make([]float64, n)
		r.k3 = make([]float64, n)
		r.k4 = make([]float64, n)
		r.scratch = make([]float64, n)
	}
}

// Step advances x by one increment dt and returns the new state.
func (r *RK4) Step(f Func, x []float64, dt float64) ([]float64, error) {
	n := len(x)
	r.ensureScratch(n)

	k1, err := f(x)
	if err != nil {
		return nil, err
	}
	copy(r.k1, k1)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2, err := f(r.scratch)
	if err != nil {
		return nil, err
	}
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3, err := f(r.scratch)
	if err != nil {
		return nil, err
	}
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4, err := f(r.scratch)
	if err != nil {
		return nil, err
	}
	copy(r.k4, k4)

	result := make([]float64, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}

	return result, nil
}
