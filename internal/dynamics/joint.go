package dynamics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/multibody/internal/rotation"
)

// Type discriminates the kinematic constraint family of a joint.
type Type int

const (
	// Revolute is a pin joint: the world-space attachment point on body
	// i must coincide with the attachment point on body j, removing 3
	// translational degrees of freedom.
	Revolute Type = iota
)

// Joint connects two bodies registered with the same System. It stores
// arena indices rather than body references; the System owns all body
// lifetimes. The derived residual, Jacobian blocks and bias term are
// only valid immediately after Update, which must run after both
// connected bodies were refreshed for the current trial state.
type Joint struct {
	typ    Type
	bodyI  int
	bodyJ  int
	pi, pj mgl64.Vec3 // attachment offsets in each body's frame
	qi, qj mgl64.Vec3 // reference orientation offsets, unused by Revolute

	residual mgl64.Vec3
	rotI     mgl64.Mat3
	rotJ     mgl64.Mat3
	gamma    mgl64.Vec3
}

func NewJoint(typ Type, bodyI, bodyJ int, pi, pj, qi, qj mgl64.Vec3) *Joint {
	return &Joint{
		typ:   typ,
		bodyI: bodyI,
		bodyJ: bodyJ,
		pi:    pi,
		pj:    pj,
		qi:    qi,
		qj:    qj,
	}
}

func (j *Joint) JointType() Type { return j.typ }
func (j *Joint) BodyI() int      { return j.bodyI }
func (j *Joint) BodyJ() int      { return j.bodyJ }

// ConstraintCount is the number of scalar constraint equations this
// joint contributes to the global system.
func (j *Joint) ConstraintCount() int {
	switch j.typ {
	case Revolute:
		return 3
	default:
		return 0
	}
}

// Update recomputes the constraint residual, Jacobian blocks and bias
// term from the current states of the connected bodies.
//
// With R the body-to-world rotation, P = R*p the rotated attachment
// offset and w the body-frame angular velocity:
//
//	C     = (s_i + P_i) - (s_j + P_j)
//	Cq_i  = [ I | -skew(P_i)*R_i ]    Cq_j = [ -I | skew(P_j)*R_j ]
//	Gamma = -R_i*(w_i x (w_i x p_i)) + R_j*(w_j x (w_j x p_j))
//
// Gamma is the quadratic velocity term from differentiating C twice;
// the sign convention matches the Jacobian so that Cq*qdd = Gamma.
func (j *Joint) Update(bi, bj Body) {
	ri := bi.Rotation()
	rj := bj.Rotation()

	worldPi := ri.Mul3x1(j.pi)
	worldPj := rj.Mul3x1(j.pj)

	j.residual = bi.Position().Add(worldPi).Sub(bj.Position()).Sub(worldPj)

	j.rotI = rotation.Skew(worldPi).Mul3(ri).Mul(-1)
	j.rotJ = rotation.Skew(worldPj).Mul3(rj)

	wi := bi.AngularVelocity()
	wj := bj.AngularVelocity()
	centI := ri.Mul3x1(wi.Cross(wi.Cross(j.pi)))
	centJ := rj.Mul3x1(wj.Cross(wj.Cross(j.pj)))
	j.gamma = centJ.Sub(centI)
}

// Residual returns C evaluated at the last Update.
func (j *Joint) Residual() mgl64.Vec3 { return j.residual }

// Gamma returns the velocity-dependent right-hand-side correction from
// the last Update.
func (j *Joint) Gamma() mgl64.Vec3 { return j.gamma }

// JacobianI returns body i's 3x6 Jacobian block as its translational
// and rotational 3x3 halves.
func (j *Joint) JacobianI() (trans, rot mgl64.Mat3) {
	return mgl64.Ident3(), j.rotI
}

// JacobianJ returns body j's 3x6 Jacobian block halves.
func (j *Joint) JacobianJ() (trans, rot mgl64.Mat3) {
	return mgl64.Ident3().Mul(-1), j.rotJ
}
