// Package rotation provides pure orientation math for the multibody solver.
//
// Orientations are canonically unit quaternions (body-to-world, Hamilton
// convention). Euler angles follow the aerospace 3-2-1 sequence: yaw psi
// about z, pitch tht about y, roll phi about x, stored as (phi, tht, psi).
// Angular velocities are expressed in the body frame.
package rotation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Skew returns the skew-symmetric cross-product matrix of v, so that
// Skew(v).Mul3x1(w) equals v.Cross(w).
func Skew(v mgl64.Vec3) mgl64.Mat3 {
	var m mgl64.Mat3
	m.Set(0, 1, -v.Z())
	m.Set(0, 2, v.Y())
	m.Set(1, 0, v.Z())
	m.Set(1, 2, -v.X())
	m.Set(2, 0, -v.Y())
	m.Set(2, 1, v.X())
	return m
}

// QuatToMatrix converts a unit quaternion to the body-to-world rotation
// matrix. The result is only a valid rotation if q has unit norm.
func QuatToMatrix(q mgl64.Quat) mgl64.Mat3 {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()

	var m mgl64.Mat3
	m.Set(0, 0, 1-2*(y*y+z*z))
	m.Set(0, 1, 2*(x*y-w*z))
	m.Set(0, 2, 2*(x*z+w*y))
	m.Set(1, 0, 2*(x*y+w*z))
	m.Set(1, 1, 1-2*(x*x+z*z))
	m.Set(1, 2, 2*(y*z-w*x))
	m.Set(2, 0, 2*(x*z-w*y))
	m.Set(2, 1, 2*(y*z+w*x))
	m.Set(2, 2, 1-2*(x*x+y*y))
	return m
}

// EulerToMatrix builds the body-to-world direction cosine matrix
// Rz(psi)*Ry(tht)*Rx(phi).
func EulerToMatrix(phi, tht, psi float64) mgl64.Mat3 {
	sphi, cphi := math.Sincos(phi)
	stht, ctht := math.Sincos(tht)
	spsi, cpsi := math.Sincos(psi)

	var m mgl64.Mat3
	m.Set(0, 0, cpsi*ctht)
	m.Set(0, 1, cpsi*stht*sphi-spsi*cphi)
	m.Set(0, 2, cpsi*stht*cphi+spsi*sphi)
	m.Set(1, 0, spsi*ctht)
	m.Set(1, 1, spsi*stht*sphi+cpsi*cphi)
	m.Set(1, 2, spsi*stht*cphi-cpsi*sphi)
	m.Set(2, 0, -stht)
	m.Set(2, 1, ctht*sphi)
	m.Set(2, 2, ctht*cphi)
	return m
}

// EulerToQuat converts 3-2-1 Euler angles to a unit quaternion.
func EulerToQuat(phi, tht, psi float64) mgl64.Quat {
	sp, cp := math.Sincos(phi / 2)
	st, ct := math.Sincos(tht / 2)
	sy, cy := math.Sincos(psi / 2)

	return mgl64.Quat{
		W: cp*ct*cy + sp*st*sy,
		V: mgl64.Vec3{
			sp*ct*cy - cp*st*sy,
			cp*st*cy + sp*ct*sy,
			cp*ct*sy - sp*st*cy,
		},
	}
}

// QuatToEuler recovers (phi, tht, psi) from a unit quaternion. The pitch
// argument is clamped to avoid NaN from round-off at the +-90 degree
// singularity.
func QuatToEuler(q mgl64.Quat) mgl64.Vec3 {
	w, x, y, z := q.W, q.V.X(), q.V.Y(), q.V.Z()

	sinTht := 2 * (w*y - z*x)
	if sinTht > 1 {
		sinTht = 1
	} else if sinTht < -1 {
		sinTht = -1
	}

	return mgl64.Vec3{
		math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		math.Asin(sinTht),
		math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
}

// Rate returns the quaternion time derivative for body-frame angular
// velocity omega: dq/dt = q*(0, omega)/2.
func Rate(q mgl64.Quat, omega mgl64.Vec3) mgl64.Quat {
	return q.Mul(mgl64.Quat{W: 0, V: omega}).Scale(0.5)
}

// IsUnit reports whether q is a unit quaternion within tol.
func IsUnit(q mgl64.Quat, tol float64) bool {
	return math.Abs(q.Len()-1) <= tol
}

// Normalize returns q scaled to unit norm. It is the caller's optional
// guard for orientations coming from outside the integrator.
func Normalize(q mgl64.Quat) mgl64.Quat {
	return q.Normalize()
}
