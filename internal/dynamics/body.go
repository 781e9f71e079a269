package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/multibody/internal/rotation"
)

// Body is the capability set shared by the fixed and mobile rigid-body
// variants. Accessors return copies, never references into live state.
// All mutation goes through Update; for a fixed body Update is a no-op.
//
// The caller is responsible for passing a unit-norm orientation to
// Update. A non-unit quaternion silently degrades the cached rotation
// matrix; rotation.IsUnit can be used as a guard.
type Body interface {
	Fixed() bool
	Update(pos, vel mgl64.Vec3, orient mgl64.Quat, angVel mgl64.Vec3)

	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	Acceleration() mgl64.Vec3
	Orientation() mgl64.Quat
	AngularVelocity() mgl64.Vec3
	AngularAcceleration() mgl64.Vec3

	// Rotation returns the cached body-to-world rotation matrix, rebuilt
	// from the orientation on every Update.
	Rotation() mgl64.Mat3

	// MassMatrix returns a copy of the constant 6x6 generalized mass:
	// translational mass on the leading 3x3 diagonal, inertia tensor on
	// the trailing 3x3 diagonal.
	MassMatrix() *mat.Dense

	Force() mgl64.Vec3
	Torque() mgl64.Vec3

	setAcceleration(lin, ang mgl64.Vec3)
}

// Ground is an immovable reference body. Its state is fixed at
// construction and never changes.
type Ground struct {
	position mgl64.Vec3
	orient   mgl64.Quat
	rot      mgl64.Mat3
	mass     *mat.Dense
}

func NewGround(pos mgl64.Vec3) *Ground {
	q := mgl64.QuatIdent()
	m := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		m.Set(i, i, 1)
	}
	return &Ground{
		position: pos,
		orient:   q,
		rot:      rotation.QuatToMatrix(q),
		mass:     m,
	}
}

func (g *Ground) Fixed() bool { return true }

func (g *Ground) Update(pos, vel mgl64.Vec3, orient mgl64.Quat, angVel mgl64.Vec3) {}

func (g *Ground) Position() mgl64.Vec3            { return g.position }
func (g *Ground) Velocity() mgl64.Vec3            { return mgl64.Vec3{} }
func (g *Ground) Acceleration() mgl64.Vec3        { return mgl64.Vec3{} }
func (g *Ground) Orientation() mgl64.Quat         { return g.orient }
func (g *Ground) AngularVelocity() mgl64.Vec3     { return mgl64.Vec3{} }
func (g *Ground) AngularAcceleration() mgl64.Vec3 { return mgl64.Vec3{} }
func (g *Ground) Rotation() mgl64.Mat3            { return g.rot }
func (g *Ground) Force() mgl64.Vec3               { return mgl64.Vec3{} }
func (g *Ground) Torque() mgl64.Vec3              { return mgl64.Vec3{} }

func (g *Ground) MassMatrix() *mat.Dense { return mat.DenseCopyOf(g.mass) }

func (g *Ground) setAcceleration(lin, ang mgl64.Vec3) {}

// Mobile is a rigid body free to move under forces and constraints. The
// generalized mass is fixed at construction; kinematic state mutates
// only through Update.
type Mobile struct {
	position mgl64.Vec3
	velocity mgl64.Vec3
	accel    mgl64.Vec3
	orient   mgl64.Quat
	angVel   mgl64.Vec3
	angAccel mgl64.Vec3
	force    mgl64.Vec3
	torque   mgl64.Vec3
	rot      mgl64.Mat3
	mass     *mat.Dense
}

// NewMobile constructs a mobile body with scalar mass and diagonal
// inertia. Force and torque are the constant externally applied loads,
// independent of constraint reactions.
func NewMobile(pos, vel mgl64.Vec3, orient mgl64.Quat, angVel mgl64.Vec3,
	mass float64, inertia mgl64.Vec3, force, torque mgl64.Vec3) *Mobile {

	m := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		m.Set(i, i, mass)
		m.Set(i+3, i+3, inertia[i])
	}

	return &Mobile{
		position: pos,
		velocity: vel,
		orient:   orient,
		angVel:   angVel,
		force:    force,
		torque:   torque,
		rot:      rotation.QuatToMatrix(orient),
		mass:     m,
	}
}

func (b *Mobile) Fixed() bool { return false }

func (b *Mobile) Update(pos, vel mgl64.Vec3, orient mgl64.Quat, angVel mgl64.Vec3) {
	b.position = pos
	b.velocity = vel
	b.orient = orient
	b.angVel = angVel
	b.rot = rotation.QuatToMatrix(orient)
}

func (b *Mobile) Position() mgl64.Vec3            { return b.position }
func (b *Mobile) Velocity() mgl64.Vec3            { return b.velocity }
func (b *Mobile) Acceleration() mgl64.Vec3        { return b.accel }
func (b *Mobile) Orientation() mgl64.Quat         { return b.orient }
func (b *Mobile) AngularVelocity() mgl64.Vec3     { return b.angVel }
func (b *Mobile) AngularAcceleration() mgl64.Vec3 { return b.angAccel }
func (b *Mobile) Rotation() mgl64.Mat3            { return b.rot }
func (b *Mobile) Force() mgl64.Vec3               { return b.force }
func (b *Mobile) Torque() mgl64.Vec3              { return b.torque }

func (b *Mobile) MassMatrix() *mat.Dense { return mat.DenseCopyOf(b.mass) }

func (b *Mobile) setAcceleration(lin, ang mgl64.Vec3) {
	b.accel = lin
	b.angAccel = ang
}
