package dynamics

import "math"

// BlockSize is the number of scalars in one body's generalized-state
// block: position (3), velocity (3), orientation quaternion (4, w first),
// body-frame angular velocity (3). Blocks are laid out in body insertion
// order; every index expression in assembly and integration relies on
// this layout.
const BlockSize = 13

// State is the flat generalized-state vector of a system.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// block returns body i's slice of the state vector.
func (s State) block(i int) []float64 {
	return s[i*BlockSize : (i+1)*BlockSize]
}
