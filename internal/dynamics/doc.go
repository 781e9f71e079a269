// Package dynamics implements the constrained rigid-multibody core.
//
// The package defines the data model and the per-step solve:
//
//   - [Body]: rigid-body capability set, with [Ground] and [Mobile] variants
//   - [Joint]: kinematic constraint between two bodies (residual, Jacobian, bias)
//   - [System]: owns bodies and joints, assembles the augmented
//     mass/constraint system and integrates it with fixed-step RK4
//   - [State]: flat generalized-state vector of per-body blocks
//
// # Example
//
//	sys := dynamics.New(linalg.NewDense(), 0.001)
//	ground, _ := sys.AddBody(dynamics.NewGround(mgl64.Vec3{}))
//	bob, _ := sys.AddBody(dynamics.NewMobile(...))
//	sys.AddJoint(dynamics.NewJoint(dynamics.Revolute, ground, bob, pi, pj, qi, qj))
//	sys.Init()
//	for i := 0; i < steps; i++ {
//	    sys.Step()
//	}
//
// # Thread Safety
//
// System instances are NOT thread-safe. A step is a deterministic,
// non-reentrant sequence of body updates, joint updates, assembly and a
// blocking linear solve; run independent systems for parallelism.
package dynamics
