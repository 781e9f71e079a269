package dynamics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/multibody/internal/rotation"
)

func TestJointResidualCoincident(t *testing.T) {
	ground := NewGround(mgl64.Vec3{})
	body := NewMobile(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{},
		1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{})

	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	j.Update(ground, body)

	if r := j.Residual(); r.Len() > 1e-14 {
		t.Errorf("coincident attachment points should give zero residual, got %v", r)
	}
}

func TestJointResidualOffset(t *testing.T) {
	ground := NewGround(mgl64.Vec3{})
	body := NewMobile(mgl64.Vec3{0.5, -1, 0}, mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{},
		1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{})

	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	j.Update(ground, body)

	want := mgl64.Vec3{-0.5, 0, 0}
	if r := j.Residual(); r.Sub(want).Len() > 1e-14 {
		t.Errorf("residual = %v, want %v", r, want)
	}
}

func TestJointResidualRotated(t *testing.T) {
	// Body rolled by phi about x with its position placed so the joint
	// closes exactly: s_j = -R*(0,1,0).
	phi := -0.3
	rot := rotation.EulerToMatrix(phi, 0, 0)
	pos := rot.Mul3x1(mgl64.Vec3{0, 1, 0}).Mul(-1)

	ground := NewGround(mgl64.Vec3{})
	body := NewMobile(pos, mgl64.Vec3{}, rotation.EulerToQuat(phi, 0, 0), mgl64.Vec3{},
		1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{})

	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	j.Update(ground, body)

	if r := j.Residual(); r.Len() > 1e-14 {
		t.Errorf("residual = %v, want zero", r)
	}
}

func TestJointJacobianIdentityOrientation(t *testing.T) {
	ground := NewGround(mgl64.Vec3{})
	body := NewMobile(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{},
		1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{})

	pj := mgl64.Vec3{0, 1, 0}
	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, pj, mgl64.Vec3{}, mgl64.Vec3{})
	j.Update(ground, body)

	transI, rotI := j.JacobianI()
	transJ, rotJ := j.JacobianJ()

	checkMat3 := func(name string, got, want mgl64.Mat3) {
		t.Helper()
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				if math.Abs(got.At(r, c)-want.At(r, c)) > 1e-14 {
					t.Errorf("%s entry (%d,%d): got %f want %f", name, r, c, got.At(r, c), want.At(r, c))
				}
			}
		}
	}

	checkMat3("transI", transI, mgl64.Ident3())
	checkMat3("transJ", transJ, mgl64.Ident3().Mul(-1))
	// With identity rotations, the rotational blocks reduce to
	// -skew(p_i) and skew(p_j).
	checkMat3("rotI", rotI, rotation.Skew(mgl64.Vec3{}).Mul(-1))
	checkMat3("rotJ", rotJ, rotation.Skew(pj))
}

func TestJointGammaSpin(t *testing.T) {
	// Body j spinning about z at rate w: the bias term is the
	// centripetal acceleration of its attachment point.
	w := 2.0
	ground := NewGround(mgl64.Vec3{})
	body := NewMobile(mgl64.Vec3{0, -1, 0}, mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{0, 0, w},
		1, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{}, mgl64.Vec3{})

	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0}, mgl64.Vec3{}, mgl64.Vec3{})
	j.Update(ground, body)

	want := mgl64.Vec3{0, -w * w, 0}
	if g := j.Gamma(); g.Sub(want).Len() > 1e-14 {
		t.Errorf("gamma = %v, want %v", g, want)
	}
}

func TestJointConstraintCount(t *testing.T) {
	j := NewJoint(Revolute, 0, 1, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{}, mgl64.Vec3{})
	if j.ConstraintCount() != 3 {
		t.Errorf("revolute joint contributes %d rows, want 3", j.ConstraintCount())
	}
}
