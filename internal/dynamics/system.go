package dynamics

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/multibody/internal/integrators"
	"github.com/san-kum/multibody/internal/linalg"
	"github.com/san-kum/multibody/internal/rotation"
)

// System owns an ordered collection of bodies and joints and advances
// their constrained equations of motion by fixed RK4 increments.
//
// Body and joint insertion order defines the generalized-state block
// layout and the constraint row order. The topology is frozen by Init;
// Step then advances the state by exactly one dt per call. A System is
// not safe for concurrent use.
type System struct {
	be linalg.Backend
	dt float64

	bodies []Body
	joints []*Joint

	state       State
	time        float64
	steps       int
	initialized bool

	rk4 *integrators.RK4

	// rebuilt on every assembly
	sysM     *mat.Dense
	sysCq    *mat.Dense
	sysMat   *mat.Dense
	sysRHS   *mat.VecDense
	solution *mat.VecDense
}

// New constructs an empty system using the given linear-algebra backend
// and integration increment.
func New(be linalg.Backend, dt float64) *System {
	return &System{
		be:  be,
		dt:  dt,
		rk4: integrators.NewRK4(),
	}
}

// AddBody appends a body and returns its arena index, used by joints to
// reference it.
func (s *System) AddBody(b Body) (int, error) {
	if s.initialized {
		return 0, ErrFrozenTopology
	}
	s.bodies = append(s.bodies, b)
	return len(s.bodies) - 1, nil
}

// AddJoint appends a joint. Both referenced body indices must already be
// registered.
func (s *System) AddJoint(j *Joint) error {
	if s.initialized {
		return ErrFrozenTopology
	}
	if err := s.checkJoint(j); err != nil {
		return err
	}
	s.joints = append(s.joints, j)
	return nil
}

func (s *System) checkJoint(j *Joint) error {
	n := len(s.bodies)
	if j.BodyI() < 0 || j.BodyI() >= n {
		return fmt.Errorf("%w: index %d", ErrUnknownBody, j.BodyI())
	}
	if j.BodyJ() < 0 || j.BodyJ() >= n {
		return fmt.Errorf("%w: index %d", ErrUnknownBody, j.BodyJ())
	}
	return nil
}

func (s *System) NumBodies() int { return len(s.bodies) }
func (s *System) NumJoints() int { return len(s.joints) }
func (s *System) Dt() float64    { return s.dt }
func (s *System) Time() float64  { return s.time }
func (s *System) Steps() int     { return s.steps }

// Body returns the body at arena index i.
func (s *System) Body(i int) Body { return s.bodies[i] }

// State returns a copy of the current generalized-state vector.
func (s *System) State() State { return s.state.Clone() }

// constraintRows is the global constraint row count: 6 anchor rows for
// body 0 plus each joint's contribution.
func (s *System) constraintRows() int {
	rows := 6
	for _, j := range s.joints {
		rows += j.ConstraintCount()
	}
	return rows
}

// Init validates the configuration, performs one assembly and captures
// the initial generalized state. The topology is frozen afterwards.
func (s *System) Init() error {
	if s.initialized {
		return ErrFrozenTopology
	}
	if len(s.bodies) == 0 {
		return ErrNoBodies
	}
	for _, j := range s.joints {
		if err := s.checkJoint(j); err != nil {
			return err
		}
	}
	if err := s.checkConnected(); err != nil {
		return err
	}

	s.state = make(State, len(s.bodies)*BlockSize)
	s.captureState()

	s.updateJoints()
	s.assemble()

	s.initialized = true
	return nil
}

// checkConnected verifies every body is reachable from the anchor body
// through joints. An unreachable body would form a free subsystem with
// no anchor path, which the solver does not model.
func (s *System) checkConnected() error {
	n := len(s.bodies)
	adj := make([][]int, n)
	for _, j := range s.joints {
		adj[j.BodyI()] = append(adj[j.BodyI()], j.BodyJ())
		adj[j.BodyJ()] = append(adj[j.BodyJ()], j.BodyI())
	}

	seen := make([]bool, n)
	queue := []int{0}
	seen[0] = true
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range adj[cur] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	for i, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: body %d", ErrDisconnected, i)
		}
	}
	return nil
}

// captureState copies every body's kinematic state into the flat vector.
func (s *System) captureState() {
	for i, b := range s.bodies {
		blk := s.state.block(i)
		pos := b.Position()
		vel := b.Velocity()
		q := b.Orientation()
		w := b.AngularVelocity()

		blk[0], blk[1], blk[2] = pos.X(), pos.Y(), pos.Z()
		blk[3], blk[4], blk[5] = vel.X(), vel.Y(), vel.Z()
		blk[6], blk[7], blk[8], blk[9] = q.W, q.V.X(), q.V.Y(), q.V.Z()
		blk[10], blk[11], blk[12] = w.X(), w.Y(), w.Z()
	}
}

// pushState writes each body's slice of x into the body.
func (s *System) pushState(x State) {
	for i, b := range s.bodies {
		blk := x.block(i)
		b.Update(
			mgl64.Vec3{blk[0], blk[1], blk[2]},
			mgl64.Vec3{blk[3], blk[4], blk[5]},
			mgl64.Quat{W: blk[6], V: mgl64.Vec3{blk[7], blk[8], blk[9]}},
			mgl64.Vec3{blk[10], blk[11], blk[12]},
		)
	}
}

func (s *System) updateJoints() {
	for _, j := range s.joints {
		j.Update(s.bodies[j.BodyI()], s.bodies[j.BodyJ()])
	}
}

// assemble rebuilds the global mass matrix, constraint Jacobian, applied
// load vector and bias vector, then forms the augmented system
//
//	[ M   Cq^T ] [ qdd    ]   [ Q     ]
//	[ Cq   0   ] [ lambda ] = [ Gamma ]
//
// where the first 6 Jacobian rows are the identity anchor pinning body
// 0's accelerations to zero.
func (s *System) assemble() {
	n := len(s.bodies)
	cols := 6 * n
	rows := s.constraintRows()

	s.sysM = s.be.NewMatrix(cols, cols)
	for i, b := range s.bodies {
		mass := b.MassMatrix()
		off := 6 * i
		for r := 0; r < 6; r++ {
			for c := 0; c < 6; c++ {
				s.sysM.Set(off+r, off+c, mass.At(r, c))
			}
		}
	}

	s.sysCq = s.be.NewMatrix(rows, cols)
	for k := 0; k < 6; k++ {
		s.sysCq.Set(k, k, 1)
	}
	row := 6
	for _, j := range s.joints {
		transI, rotI := j.JacobianI()
		transJ, rotJ := j.JacobianJ()
		ci := 6 * j.BodyI()
		cj := 6 * j.BodyJ()
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				s.sysCq.Set(row+r, ci+c, transI.At(r, c))
				s.sysCq.Set(row+r, ci+3+c, rotI.At(r, c))
				s.sysCq.Set(row+r, cj+c, transJ.At(r, c))
				s.sysCq.Set(row+r, cj+3+c, rotJ.At(r, c))
			}
		}
		row += j.ConstraintCount()
	}

	rhs := s.be.NewVector(cols + rows)
	for i, b := range s.bodies {
		f := b.Force()
		t := b.Torque()
		off := 6 * i
		rhs.SetVec(off, f.X())
		rhs.SetVec(off+1, f.Y())
		rhs.SetVec(off+2, f.Z())
		rhs.SetVec(off+3, t.X())
		rhs.SetVec(off+4, t.Y())
		rhs.SetVec(off+5, t.Z())
	}
	row = cols + 6 // anchor bias rows stay zero
	for _, j := range s.joints {
		g := j.Gamma()
		rhs.SetVec(row, g.X())
		rhs.SetVec(row+1, g.Y())
		rhs.SetVec(row+2, g.Z())
		row += j.ConstraintCount()
	}
	s.sysRHS = rhs

	upper := s.be.Augment(s.sysM, s.be.Transpose(s.sysCq))
	lower := s.be.Augment(s.sysCq, s.be.NewMatrix(rows, rows))
	s.sysMat = s.be.Stack(upper, lower)
}

// derivative is the first-order reduction of the constrained equations
// of motion: it pushes the trial state into the bodies, refreshes every
// joint, reassembles and solves the augmented system, and returns per
// body [velocity, acceleration, quaternion rate, angular acceleration].
func (s *System) derivative(x State) (State, error) {
	if !x.IsValid() {
		return nil, ErrInvalidState
	}

	s.pushState(x)
	s.updateJoints()
	s.assemble()

	ans, err := s.be.Solve(s.sysMat, s.sysRHS)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}
	s.solution = ans

	d := make(State, len(x))
	for i, b := range s.bodies {
		if b.Fixed() {
			// An anchored body's block stays exactly constant; round-off
			// from the solve must not leak into the state.
			continue
		}

		blk := x.block(i)
		dblk := d.block(i)
		off := 6 * i

		lin := mgl64.Vec3{ans.AtVec(off), ans.AtVec(off + 1), ans.AtVec(off + 2)}
		ang := mgl64.Vec3{ans.AtVec(off + 3), ans.AtVec(off + 4), ans.AtVec(off + 5)}
		b.setAcceleration(lin, ang)

		q := mgl64.Quat{W: blk[6], V: mgl64.Vec3{blk[7], blk[8], blk[9]}}
		w := mgl64.Vec3{blk[10], blk[11], blk[12]}
		qd := rotation.Rate(q, w)

		dblk[0], dblk[1], dblk[2] = blk[3], blk[4], blk[5]
		dblk[3], dblk[4], dblk[5] = lin.X(), lin.Y(), lin.Z()
		dblk[6], dblk[7], dblk[8], dblk[9] = qd.W, qd.V.X(), qd.V.Y(), qd.V.Z()
		dblk[10], dblk[11], dblk[12] = ang.X(), ang.Y(), ang.Z()
	}

	return d, nil
}

// Step advances the system by one dt using RK4. The combined update does
// not preserve quaternion norm exactly, so each orientation block is
// re-normalized before the state is committed.
func (s *System) Step() error {
	if !s.initialized {
		return ErrNotInitialized
	}

	next, err := s.rk4.Step(func(x []float64) ([]float64, error) {
		d, derr := s.derivative(State(x))
		return []float64(d), derr
	}, []float64(s.state), s.dt)
	if err != nil {
		return &StepError{Step: s.steps, Time: s.time, Wrapped: err}
	}

	nextState := State(next)
	for i := range s.bodies {
		normalizeQuatBlock(nextState.block(i))
	}

	s.state = nextState
	s.time += s.dt
	s.steps++

	// Leave bodies and joints consistent with the committed state so
	// queries between steps see current data.
	s.pushState(s.state)
	s.updateJoints()

	return nil
}

func normalizeQuatBlock(blk []float64) {
	q := mgl64.Quat{W: blk[6], V: mgl64.Vec3{blk[7], blk[8], blk[9]}}
	q = q.Normalize()
	blk[6], blk[7], blk[8], blk[9] = q.W, q.V.X(), q.V.Y(), q.V.Z()
}

// Positions returns a copy of every body's world position, in insertion
// order.
func (s *System) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = b.Position()
	}
	return out
}

// Angles returns every body's orientation as 3-2-1 Euler angles. The
// quaternion representation is internal; Euler angles exist only at
// this query boundary.
func (s *System) Angles() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s.bodies))
	for i, b := range s.bodies {
		out[i] = rotation.QuatToEuler(b.Orientation())
	}
	return out
}

// Multipliers returns a copy of the Lagrange multipliers from the most
// recent solve: anchor rows first, then each joint's rows in insertion
// order. They represent the reaction loads enforcing the constraints.
func (s *System) Multipliers() []float64 {
	if s.solution == nil {
		return nil
	}
	out := make([]float64, s.constraintRows())
	off := 6 * len(s.bodies)
	for i := range out {
		out[i] = s.solution.AtVec(off + i)
	}
	return out
}

// ConstraintViolation returns the largest joint residual norm at the
// current state. With no stabilization term modeled, slow drift over
// very long runs is expected.
func (s *System) ConstraintViolation() float64 {
	worst := 0.0
	for _, j := range s.joints {
		if n := j.Residual().Len(); n > worst {
			worst = n
		}
	}
	return worst
}
