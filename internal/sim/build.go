package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/multibody/internal/config"
	"github.com/san-kum/multibody/internal/dynamics"
	"github.com/san-kum/multibody/internal/linalg"
	"github.com/san-kum/multibody/internal/rotation"
)

// FromConfig assembles a System from a scenario config. The returned
// system has not been initialized; the caller decides when to freeze
// the topology with Init.
func FromConfig(cfg *config.Config, be linalg.Backend) (*dynamics.System, error) {
	sys := dynamics.New(be, cfg.Dt)

	for i, bc := range cfg.Bodies {
		var b dynamics.Body
		if bc.Fixed {
			b = dynamics.NewGround(vec3(bc.Position))
		} else {
			force := vec3(bc.Force).Add(mgl64.Vec3{0, -bc.Mass * cfg.Gravity, 0})
			orient := rotation.EulerToQuat(
				rad(bc.Angles[0]), rad(bc.Angles[1]), rad(bc.Angles[2]))
			b = dynamics.NewMobile(
				vec3(bc.Position), vec3(bc.Velocity), orient,
				vec3(bc.AngularVelocity),
				bc.Mass, vec3(bc.Inertia),
				force, vec3(bc.Torque))
		}
		if _, err := sys.AddBody(b); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}

	for i, jc := range cfg.Joints {
		typ, err := jointType(jc.Type)
		if err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
		j := dynamics.NewJoint(typ, jc.BodyI, jc.BodyJ,
			vec3(jc.PI), vec3(jc.PJ), vec3(jc.QI), vec3(jc.QJ))
		if err := sys.AddJoint(j); err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
	}

	return sys, nil
}

func jointType(name string) (dynamics.Type, error) {
	switch name {
	case "", "revolute", "pin":
		return dynamics.Revolute, nil
	default:
		return 0, fmt.Errorf("unknown joint type: %q", name)
	}
}

func vec3(v [3]float64) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
