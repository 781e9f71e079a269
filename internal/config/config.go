// Package config defines the YAML scenario format for the multibody CLI.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.001
	DefaultDuration = 10.0
	DefaultGravity  = 9.81
	DefaultLinks    = 1
	DefaultAngleDeg = 3.0
	DefaultMass     = 1.0
	DefaultLength   = 1.0
)

// Config describes a complete scenario: integration settings plus the
// explicit body and joint lists. Body and joint order is significant;
// it fixes the state-block and constraint-row layout.
type Config struct {
	Name        string        `yaml:"name"`
	Dt          float64       `yaml:"dt"`
	Duration    float64       `yaml:"duration"`
	Gravity     float64       `yaml:"gravity"`
	RecordEvery int           `yaml:"record_every"`
	Bodies      []BodyConfig  `yaml:"bodies"`
	Joints      []JointConfig `yaml:"joints"`
}

// BodyConfig describes one rigid body. Angles are 3-2-1 Euler angles in
// degrees (roll, pitch, yaw); angular velocity is body-frame rad/s.
// Force is an extra applied load on top of gravity, which the builder
// adds as -mass*gravity on the y axis.
type BodyConfig struct {
	Fixed           bool       `yaml:"fixed"`
	Mass            float64    `yaml:"mass"`
	Inertia         [3]float64 `yaml:"inertia"`
	Position        [3]float64 `yaml:"position"`
	Velocity        [3]float64 `yaml:"velocity"`
	Angles          [3]float64 `yaml:"angles"`
	AngularVelocity [3]float64 `yaml:"angular_velocity"`
	Force           [3]float64 `yaml:"force"`
	Torque          [3]float64 `yaml:"torque"`
}

// JointConfig connects two bodies by index into the bodies list.
type JointConfig struct {
	Type  string     `yaml:"type"`
	BodyI int        `yaml:"body_i"`
	BodyJ int        `yaml:"body_j"`
	PI    [3]float64 `yaml:"p_i"`
	PJ    [3]float64 `yaml:"p_j"`
	QI    [3]float64 `yaml:"q_i"`
	QJ    [3]float64 `yaml:"q_j"`
}

// DefaultConfig is a single pendulum released from a small offset.
func DefaultConfig() *Config {
	return Chain(DefaultLinks, DefaultAngleDeg)
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  DefaultGravity,
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
