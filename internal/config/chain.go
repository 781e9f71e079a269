package config

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/multibody/internal/rotation"
)

// Chain builds a serial pin-joint chain scenario: a fixed ground body at
// the origin plus `links` unit-mass links of unit length hanging along
// -y, every link tilted by angleDeg about the x axis. Initial positions
// are computed so every joint constraint is exactly satisfied at t=0.
func Chain(links int, angleDeg float64) *Config {
	name := "pendulum"
	if links > 1 {
		name = fmt.Sprintf("chain%d", links)
	}

	cfg := &Config{
		Name:        name,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		Gravity:     DefaultGravity,
		RecordEvery: 10,
		Bodies:      []BodyConfig{{Fixed: true}},
	}

	phi := angleDeg * math.Pi / 180
	r := rotation.EulerToMatrix(phi, 0, 0)
	drop := r.Mul3x1(mgl64.Vec3{0, DefaultLength, 0})

	pos := mgl64.Vec3{}
	for k := 1; k <= links; k++ {
		pos = pos.Sub(drop)
		cfg.Bodies = append(cfg.Bodies, BodyConfig{
			Mass:     DefaultMass,
			Inertia:  [3]float64{1, 1, 1},
			Position: [3]float64{pos.X(), pos.Y(), pos.Z()},
			Angles:   [3]float64{angleDeg, 0, 0},
		})
		cfg.Joints = append(cfg.Joints, JointConfig{
			Type:  "revolute",
			BodyI: k - 1,
			BodyJ: k,
			PJ:    [3]float64{0, DefaultLength, 0},
		})
	}

	return cfg
}
